// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/techverse/authz/controller"
	"github.com/techverse/authz/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))
	router.Use(middleware.Auth())

	api := router.Group("/api/v1")

	controllers.PermissionController.RegisterRoutes(api)
	controllers.RoleController.RegisterRoutes(api)
	controllers.UserController.RegisterRoutes(api)
	controllers.AuditController.RegisterRoutes(api)

	return router
}
