package contact

import (
	"errors"
	"net/http"

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
	case errors.Is(err, ErrContactNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (c *Controller) Create(ctx *gin.Context) {
	var req CreateContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation errors", nil, err.Error())
		return
	}
	contact, created, err := c.service.Create(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to create contact", nil, err.Error())
		return
	}
	if !created {
		response.RespondJSON(ctx, "success", http.StatusOK, "Contact already exists", contact, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Contact created successfully", contact, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	contact, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to fetch contact", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Contact fetched successfully", contact, nil)
}

// List serves both the full list and the range route.
func (c *Controller) List(ctx *gin.Context) {
	var q RangeQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	list, err := c.service.List(ctx.Request.Context(), q)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to fetch contacts", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Contacts fetched successfully", list, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	if err := c.service.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to delete contact", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Contact deleted successfully", nil, nil)
}
