// controller/role_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	authz_errors "github.com/techverse/authz/errors"
	"github.com/techverse/authz/model"
	"github.com/techverse/authz/service"
	"github.com/techverse/authz/util"
	helper_util "github.com/techverse/authz/util/helper"
)

// RoleController handles the role admin API
type RoleController struct {
	roleService service.IRoleService
}

func NewRoleController(roleService service.IRoleService) *RoleController {
	return &RoleController{roleService: roleService}
}

func (rc *RoleController) RegisterRoutes(r *gin.RouterGroup) {
	roles := r.Group("/roles")
	{
		roles.POST("", rc.CreateRole)
		roles.PUT("/:id", rc.UpdateRole)
		roles.DELETE("/:id", rc.DeleteRole)
		roles.GET("/:id", rc.GetRole)
		roles.GET("", rc.ListRoles)
	}
}

// CreateRole handles POST /roles
func (rc *RoleController) CreateRole(c *gin.Context) {
	var role model.Role
	if err := c.ShouldBindJSON(&role); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role data", err)
		return
	}

	requestingUserID, _ := util.GetUserIDFromContext(c)

	createdRole, err := rc.roleService.CreateRole(c.Request.Context(), role, requestingUserID)
	if err != nil {
		respondWithRoleError(c, err, "Failed to create role")
		return
	}

	c.JSON(http.StatusCreated, createdRole)
}

// UpdateRole handles PUT /roles/:id
func (rc *RoleController) UpdateRole(c *gin.Context) {
	var role model.Role
	if err := c.ShouldBindJSON(&role); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role data", err)
		return
	}
	role.ID = c.Param("id")

	requestingUserID, _ := util.GetUserIDFromContext(c)

	updatedRole, err := rc.roleService.UpdateRole(c.Request.Context(), role, requestingUserID)
	if err != nil {
		respondWithRoleError(c, err, "Failed to update role")
		return
	}

	c.JSON(http.StatusOK, updatedRole)
}

// DeleteRole handles DELETE /roles/:id
func (rc *RoleController) DeleteRole(c *gin.Context) {
	roleID := c.Param("id")

	requestingUserID, _ := util.GetUserIDFromContext(c)

	if err := rc.roleService.DeleteRole(c.Request.Context(), roleID, requestingUserID); err != nil {
		respondWithRoleError(c, err, "Failed to delete role")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role deleted successfully"})
}

// GetRole handles GET /roles/:id
func (rc *RoleController) GetRole(c *gin.Context) {
	role, err := rc.roleService.GetRole(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithRoleError(c, err, "Failed to get role")
		return
	}

	c.JSON(http.StatusOK, role)
}

// ListRoles handles GET /roles
func (rc *RoleController) ListRoles(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	roles, err := rc.roleService.ListRoles(c.Request.Context(), limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list roles", err)
		return
	}

	c.JSON(http.StatusOK, roles)
}

func respondWithRoleError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, authz_errors.ErrRoleNotFound):
		util.RespondWithError(c, http.StatusNotFound, "Role not found", err)
	case errors.Is(err, authz_errors.ErrRoleConflict):
		util.RespondWithError(c, http.StatusConflict, "Role conflict", err)
	case errors.Is(err, authz_errors.ErrInvalidRoleData), errors.Is(err, authz_errors.ErrInvalidPermissionData):
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role data", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, message, err)
	}
}
