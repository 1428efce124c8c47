package theaters

import (
	"theaterbook/internal/shared/config"
	"theaterbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTheaterRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	public := rg.Group("/theaters")
	{
		public.GET("", controller.List)                                         // GET /api/v1/theaters?date=YYYY-MM-DD
		public.POST("/by-location", controller.ByLocation)                      // POST /api/v1/theaters/by-location
		public.GET("/branch/:branchId", controller.ByBranch)                    // GET /api/v1/theaters/branch/:branchId
		public.GET("/branch/:branchId/locations", controller.LocationsByBranch) // GET /api/v1/theaters/branch/:branchId/locations
		public.GET("/:id", controller.Get)
		public.POST("/:id/available-slots", controller.AvailableSlots)
		public.GET("/:id/available-slots", controller.AvailableSlots)
	}

	admin := rg.Group("/admin/theaters")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("", controller.Create)
		admin.PUT("/:id", controller.Update)
		admin.DELETE("/:id", controller.Delete)
		admin.POST("/:id/images", controller.UploadImages)
	}
}
