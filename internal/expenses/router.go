package expenses

import (
	"theaterbook/internal/shared/config"
	"theaterbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupExpenseRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	admin := rg.Group("/admin/expenses")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("", controller.Create)
		admin.GET("/branch/:branchId", controller.ListByBranch) // ?from=&to=
		admin.GET("/:id", controller.Get)
		admin.PUT("/:id", controller.Update)
		admin.DELETE("/:id", controller.Delete)
	}
}
