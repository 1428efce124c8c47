package unsaved

import (
	"theaterbook/internal/shared/config"
	"theaterbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupUnsavedRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	user := rg.Group("/unsaved")
	user.Use(middleware.JWTAuthWithConfig(cfg))
	{
		user.POST("", controller.Save)
	}

	admin := rg.Group("/admin/unsaved")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.GET("", controller.List)
		admin.GET("/:id", controller.Get)
	}
}
