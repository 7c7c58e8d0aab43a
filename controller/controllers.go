// controller/controllers.go
package controller

import "github.com/techverse/authz/service"

// Controllers aggregates all controller instances
type Controllers struct {
	PermissionController *PermissionController
	RoleController       *RoleController
	UserController       *UserController
	AuditController      *AuditController
}

// InitializeControllers creates the controllers over the service layer
func InitializeControllers(services *service.Services) *Controllers {
	return &Controllers{
		PermissionController: NewPermissionController(services.PermissionService),
		RoleController:       NewRoleController(services.RoleService),
		UserController:       NewUserController(services.UserService),
		AuditController:      NewAuditController(services.AuditService),
	}
}
