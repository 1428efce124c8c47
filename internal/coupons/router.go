package coupons

import (
	"theaterbook/internal/shared/config"
	"theaterbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCouponRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	public := rg.Group("/coupons")
	public.Use(middleware.OptionalAuthWithConfig(cfg))
	{
		public.POST("/apply", controller.Apply)  // POST /api/v1/coupons/apply
		public.GET("/offers", controller.Offers) // GET /api/v1/coupons/offers
	}

	admin := rg.Group("/admin/coupons")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("", controller.Create)
		admin.GET("", controller.List)
		admin.GET("/:id", controller.Get)
		admin.PUT("/:id", controller.Update)
		admin.DELETE("/:id", controller.Delete)
	}
}
