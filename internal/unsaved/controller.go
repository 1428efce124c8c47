package unsaved

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
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (c *Controller) Save(ctx *gin.Context) {
	var req SaveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)

	b, err := c.service.Save(ctx.Request.Context(), userID, req)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to save booking", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking saved", b, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	b, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to fetch booking", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", b, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	list, err := c.service.List(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch bookings", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", list, nil)
}
