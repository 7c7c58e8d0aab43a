// controller/permission_controller.go
package controller

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/techverse/authz/audit"
	"github.com/techverse/authz/authz"
	"github.com/techverse/authz/model"
	"github.com/techverse/authz/service"
	"github.com/techverse/authz/util"
)

// PermissionController exposes the authorization check API. Checks always
// answer 200 with an allowed flag; a failure anywhere below surfaces as a
// denial, never as a 5xx.
type PermissionController struct {
	permissionService service.IPermissionService
}

func NewPermissionController(permissionService service.IPermissionService) *PermissionController {
	return &PermissionController{permissionService: permissionService}
}

func (pc *PermissionController) RegisterRoutes(r *gin.RouterGroup) {
	checks := r.Group("/authz")
	{
		checks.POST("/check", pc.CheckPermission)
		checks.POST("/check-all", pc.CheckAllPermissions)
		checks.POST("/check-any", pc.CheckAnyPermission)
		checks.GET("/users/:id/permissions", pc.GetUserPermissions)
		checks.GET("/users/:id/permissions/grouped", pc.GetUserPermissionsGrouped)
		checks.DELETE("/cache/users/:id", pc.InvalidateUserCache)
		checks.DELETE("/cache", pc.InvalidateAllCaches)
		checks.GET("/cache/stats", pc.GetCacheStats)
	}
}

// CheckPermission handles POST /authz/check
func (pc *PermissionController) CheckPermission(c *gin.Context) {
	var req model.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid check request", err)
		return
	}

	allowed := pc.permissionService.HasPermission(c.Request.Context(), req.UserID, req.Permission)
	if !allowed {
		pc.recordDenied(c, req.UserID, req.Permission)
	}

	c.JSON(http.StatusOK, model.CheckResponse{Allowed: allowed})
}

// CheckAllPermissions handles POST /authz/check-all
func (pc *PermissionController) CheckAllPermissions(c *gin.Context) {
	var req model.CheckListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid check request", err)
		return
	}

	allowed := pc.permissionService.HasAllPermissions(c.Request.Context(), req.UserID, req.Permissions)
	if !allowed {
		pc.recordDenied(c, req.UserID, joinPermissions(req.Permissions))
	}

	c.JSON(http.StatusOK, model.CheckResponse{Allowed: allowed})
}

// CheckAnyPermission handles POST /authz/check-any
func (pc *PermissionController) CheckAnyPermission(c *gin.Context) {
	var req model.CheckListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid check request", err)
		return
	}

	allowed := pc.permissionService.HasAnyPermission(c.Request.Context(), req.UserID, req.Permissions)
	if !allowed {
		pc.recordDenied(c, req.UserID, joinPermissions(req.Permissions))
	}

	c.JSON(http.StatusOK, model.CheckResponse{Allowed: allowed})
}

// GetUserPermissions handles GET /authz/users/:id/permissions
func (pc *PermissionController) GetUserPermissions(c *gin.Context) {
	userID := c.Param("id")
	perms := pc.permissionService.ResolvePermissions(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{
		"user_id":     userID,
		"permissions": authz.ToStrings(perms),
	})
}

// GetUserPermissionsGrouped handles GET /authz/users/:id/permissions/grouped
func (pc *PermissionController) GetUserPermissionsGrouped(c *gin.Context) {
	userID := c.Param("id")
	grouped := pc.permissionService.GetPermissionsGrouped(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{
		"user_id":     userID,
		"permissions": grouped,
	})
}

// InvalidateUserCache handles DELETE /authz/cache/users/:id
func (pc *PermissionController) InvalidateUserCache(c *gin.Context) {
	userID := c.Param("id")
	pc.permissionService.InvalidateUserCache(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"message": "Cache invalidated", "user_id": userID})
}

// InvalidateAllCaches handles DELETE /authz/cache
func (pc *PermissionController) InvalidateAllCaches(c *gin.Context) {
	removed := pc.permissionService.InvalidateAllCaches(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "All caches invalidated", "removed": removed})
}

// GetCacheStats handles GET /authz/cache/stats
func (pc *PermissionController) GetCacheStats(c *gin.Context) {
	stats := pc.permissionService.GetCacheStats()
	c.JSON(http.StatusOK, gin.H{
		"total":   stats.Total,
		"active":  stats.Active,
		"expired": stats.Expired,
		"ttl":     stats.TTL.String(),
	})
}

func (pc *PermissionController) recordDenied(c *gin.Context, userID, permission string) {
	pc.permissionService.RecordDenied(c.Request.Context(), audit.AccessAttempt{
		Timestamp:  time.Now(),
		UserID:     userID,
		Permission: permission,
		Endpoint:   c.Request.URL.Path,
		Method:     c.Request.Method,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Granted:    false,
	})
}

func joinPermissions(perms []string) string {
	return strings.Join(perms, ",")
}
