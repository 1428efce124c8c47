package auth

import (
	"theaterbook/internal/shared/config"
	"theaterbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers the login flows under /auth.
func SetupAuthRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	auth := rg.Group("/auth")
	{
		auth.POST("/otp/send", controller.SendOTP)
		auth.POST("/otp/verify", controller.VerifyOTP)
		auth.POST("/firebase", controller.FirebaseLogin)
		auth.POST("/refresh", controller.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.JWTAuthWithConfig(cfg))
		{
			protected.GET("/me", controller.GetMe)
		}
	}
}
