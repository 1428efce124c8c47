package bookings

import (
	"theaterbook/internal/shared/config"
	"theaterbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures booking and payment routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(cfg))
	{
		bookings.POST("", controller.CreateBooking)          // POST /api/v1/bookings
		bookings.GET("/user/:userId", controller.ListByUser) // GET /api/v1/bookings/user/:userId
		bookings.GET("/:id", controller.Get)                 // GET /api/v1/bookings/:id
	}

	pay := rg.Group("/payments")
	pay.Use(middleware.JWTAuthWithConfig(cfg))
	{
		pay.POST("/orders", controller.CreateOrder)   // POST /api/v1/payments/orders
		pay.POST("/verify", controller.VerifyPayment) // POST /api/v1/payments/verify
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.GET("/bookings", controller.List)
		admin.GET("/bookings/theater/:theaterId", controller.ListByTheater)
		admin.GET("/bookings/branch/:branchId", controller.ListByBranch)
		admin.PATCH("/bookings/:id/read", controller.MarkRead)

		admin.GET("/payments", controller.ListPayments)
		admin.GET("/payments/:id", controller.GetPayment)
	}
}

// Checkout flow:
// 1. POST /payments/orders  checks the slot, holds it for the user and opens a gateway order
// 2. client pays through the gateway checkout
// 3. POST /bookings         allocates the slot and verifies the payment signature
// 4. POST /payments/verify  re-verifies a payment for an order without touching slot state
