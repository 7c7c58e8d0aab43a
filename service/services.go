// service/services.go
package service

import (
	"github.com/techverse/authz/audit"
	"github.com/techverse/authz/authz"
	"github.com/techverse/authz/config"
	"github.com/techverse/authz/dao"
	"github.com/techverse/authz/util"
)

// Services aggregates all service instances
type Services struct {
	PermissionService IPermissionService
	RoleService       IRoleService
	UserService       IUserService
	AuditService      audit.Service
}

// InitializeServices wires the DAOs, caches and event bus into the service
// layer. The permission cache TTL comes from config (authz.cacheTTL).
func InitializeServices(
	userDAO *dao.UserDAO,
	roleDAO *dao.RoleDAO,
	auditRepo audit.Repository,
	eventBus *util.EventBus,
) *Services {
	validationUtil := util.NewValidationUtil()
	cacheService := util.NewCacheService()

	auditService := audit.NewService(auditRepo)

	permCache := authz.NewPermissionCache(config.GetDuration("authz.cacheTTL"))
	permissionService := NewPermissionService(NewDAOStore(userDAO, roleDAO), permCache, auditService, eventBus)

	return &Services{
		PermissionService: permissionService,
		RoleService:       NewRoleService(roleDAO, validationUtil, cacheService, eventBus),
		UserService:       NewUserService(userDAO, validationUtil, cacheService, eventBus),
		AuditService:      auditService,
	}
}
