// controller/user_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	authz_errors "github.com/techverse/authz/errors"
	"github.com/techverse/authz/model"
	"github.com/techverse/authz/service"
	"github.com/techverse/authz/util"
)

// UserController handles the user record API
type UserController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) *UserController {
	return &UserController{userService: userService}
}

func (uc *UserController) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("/:id", uc.GetUser)
		users.PUT("/:id", uc.UpsertUser)
		users.PUT("/:id/permissions", uc.SetUserPermissions)
	}
}

// GetUser handles GET /users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	user, err := uc.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithUserError(c, err, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpsertUser handles PUT /users/:id
func (uc *UserController) UpsertUser(c *gin.Context) {
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", err)
		return
	}
	user.ID = c.Param("id")

	requestingUserID, _ := util.GetUserIDFromContext(c)

	upserted, err := uc.userService.UpsertUser(c.Request.Context(), user, requestingUserID)
	if err != nil {
		respondWithUserError(c, err, "Failed to upsert user")
		return
	}

	c.JSON(http.StatusOK, upserted)
}

// SetUserPermissions handles PUT /users/:id/permissions
func (uc *UserController) SetUserPermissions(c *gin.Context) {
	var req model.SetPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid permissions data", err)
		return
	}
	userID := c.Param("id")

	requestingUserID, _ := util.GetUserIDFromContext(c)

	if err := uc.userService.SetUserPermissions(c.Request.Context(), userID, req.Permissions, requestingUserID); err != nil {
		respondWithUserError(c, err, "Failed to set user permissions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Permissions updated", "user_id": userID})
}

func respondWithUserError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, authz_errors.ErrUserNotFound):
		util.RespondWithError(c, http.StatusNotFound, "User not found", err)
	case errors.Is(err, authz_errors.ErrUserConflict):
		util.RespondWithError(c, http.StatusConflict, "User conflict", err)
	case errors.Is(err, authz_errors.ErrInvalidUserData), errors.Is(err, authz_errors.ErrInvalidPermissionData):
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, message, err)
	}
}
