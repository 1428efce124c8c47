package branches

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
	case errors.Is(err, ErrInvalidBranchID):
		return http.StatusBadRequest
	case errors.Is(err, ErrBranchNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBranchExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (c *Controller) Create(ctx *gin.Context) {
	var req CreateBranchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	branch, err := c.service.Create(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to create branch", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Branch created successfully", branch, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	branch, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to get branch", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Branch retrieved successfully", branch, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	list, err := c.service.List(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get branches", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Branches retrieved successfully", list, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	var req UpdateBranchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	branch, err := c.service.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to update branch", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Branch updated successfully", branch, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	if err := c.service.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to delete branch", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Branch deleted successfully", nil, nil)
}
