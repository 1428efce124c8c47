package contact

import (
	"theaterbook/internal/shared/config"
	"theaterbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupContactRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	rg.POST("/contact", controller.Create)

	admin := rg.Group("/admin/contacts")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.GET("", controller.List)
		admin.GET("/range", controller.List) // ?from=&to=
		admin.GET("/:id", controller.Get)
		admin.DELETE("/:id", controller.Delete)
	}
}
