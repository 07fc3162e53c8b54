package routes

import (
	"printshop_backend/internal/config"
	"printshop_backend/internal/handlers"
	"printshop_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts all HTTP routes.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	cfg *config.Config,
) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.OrderHandler.RegisterRoutes(api)
		appHandlers.FileHandler.RegisterRoutes(api)
		appHandlers.UploadHandler.RegisterRoutes(api)
	}

	admin := ginRouter.Group("/api/v1/admin")
	admin.Use(middleware.AdminAuthMiddleware(cfg.JWT.Secret))
	{
		appHandlers.AdminHandler.RegisterRoutes(admin)
		appHandlers.OrderHandler.RegisterAdminRoutes(admin)
	}

	ginRouter.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
