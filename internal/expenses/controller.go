package expenses

import (
	"errors"
	"net/http"

	"theaterbook/internal/branches"
	"theaterbook/internal/shared/utils/response"
	"theaterbook/internal/theaters"

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
	case errors.Is(err, ErrExpenseNotFound), errors.Is(err, branches.ErrBranchNotFound), errors.Is(err, theaters.ErrTheaterNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (c *Controller) Create(ctx *gin.Context) {
	var req CreateExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	e, err := c.service.Create(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to create expense", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Expense created successfully", e, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	e, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to fetch expense", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Expense fetched successfully", e, nil)
}

func (c *Controller) ListByBranch(ctx *gin.Context) {
	var q RangeQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	list, err := c.service.ListByBranch(ctx.Request.Context(), ctx.Param("branchId"), q)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to fetch expenses", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Expenses fetched successfully", list, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	var req UpdateExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	e, err := c.service.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to update expense", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Expense updated successfully", e, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	if err := c.service.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to delete expense", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Expense deleted successfully", nil, nil)
}
