package branches

import (
	"theaterbook/internal/shared/config"
	"theaterbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBranchRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	public := rg.Group("/branches")
	{
		public.GET("", controller.List)    // GET /api/v1/branches
		public.GET("/:id", controller.Get) // GET /api/v1/branches/:id
	}

	admin := rg.Group("/admin/branches")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("", controller.Create)
		admin.PUT("/:id", controller.Update)
		admin.DELETE("/:id", controller.Delete)
	}
}
