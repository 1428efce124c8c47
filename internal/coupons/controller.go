package coupons

import (
	"errors"
	"net/http"

	"theaterbook/internal/shared/middleware"
	"theaterbook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrCouponRejected):
		return http.StatusBadRequest
	case errors.Is(err, ErrCouponNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrCouponExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (c *Controller) Create(ctx *gin.Context) {
	var req CreateCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	coupon, err := c.service.Create(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to create coupon", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Coupon created successfully", coupon, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	coupon, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to get coupon", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Coupon retrieved successfully", coupon, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	list, err := c.service.List(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to list coupons", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Coupons retrieved successfully", list, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	var req UpdateCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	coupon, err := c.service.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to update coupon", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Coupon updated successfully", coupon, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	if err := c.service.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to delete coupon", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Coupon deleted successfully", nil, nil)
}

func (c *Controller) Offers(ctx *gin.Context) {
	descriptions, err := c.service.OfferDescriptions(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to fetch offers", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Offers retrieved successfully", OffersResponse{Descriptions: descriptions}, nil)
}

// Apply previews a coupon for the current order.
func (c *Controller) Apply(ctx *gin.Context) {
	var req ApplyCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	userID := req.UserID
	if id, ok := middleware.CurrentUserID(ctx); ok {
		userID = id
	}

	res, err := c.service.Apply(ctx.Request.Context(), Usage{
		Code:       req.CouponCode,
		OrderValue: req.OrderValue,
		TheaterID:  req.TheaterID,
		UserID:     userID,
		DeviceID:   req.DeviceID,
	})
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to apply coupon", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Coupon applied successfully", res, nil)
}
