package users

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
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidUserID), errors.Is(err, ErrPhoneRequired), errors.Is(err, ErrEmailRequired),
		errors.Is(err, ErrBranchRequired), errors.Is(err, ErrInvalidAuthType),
		errors.Is(err, ErrInvalidRole):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (c *Controller) Create(ctx *gin.Context) {
	var req CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	user, created, err := c.service.CreateOrUpdate(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to create user", nil, err.Error())
		return
	}
	if !created {
		response.RespondJSON(ctx, "success", http.StatusOK, "User already exists", user, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "User created successfully", user, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	user, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to fetch user", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "User retrieved successfully", user, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	list, err := c.service.List(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch users", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Users retrieved successfully", list, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	var req UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	role, _ := ctx.Get(RoleContextKey)
	actor, _ := role.(string)
	user, err := c.service.Update(ctx.Request.Context(), ctx.Param("id"), req, Role(actor))
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to update user", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "User updated successfully", user, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	if err := c.service.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to delete user", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "User deleted successfully", nil, nil)
}
