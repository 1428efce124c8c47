package auth

import (
	"errors"
	"net/http"

	"theaterbook/internal/shared/middleware"
	"theaterbook/internal/shared/utils/response"
	"theaterbook/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCode), errors.Is(err, ErrCodeExpired), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAccountDisabled):
		return http.StatusForbidden
	case errors.Is(err, users.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrFirebaseDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, users.ErrInvalidUserID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (c *Controller) bind(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return false
	}
	if err := c.validator.Struct(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return false
	}
	return true
}

func (c *Controller) SendOTP(ctx *gin.Context) {
	var req SendOTPRequest
	if !c.bind(ctx, &req) {
		return
	}
	if err := c.service.SendOTP(ctx.Request.Context(), req.Email); err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to send code", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Code sent", nil, nil)
}

func (c *Controller) VerifyOTP(ctx *gin.Context) {
	var req VerifyOTPRequest
	if !c.bind(ctx, &req) {
		return
	}
	resp, err := c.service.VerifyOTP(ctx.Request.Context(), req.Email, req.Code)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), err.Error(), nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Login successful", resp, nil)
}

func (c *Controller) FirebaseLogin(ctx *gin.Context) {
	var req FirebaseLoginRequest
	if !c.bind(ctx, &req) {
		return
	}
	resp, err := c.service.FirebaseLogin(ctx.Request.Context(), req.IDToken)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), err.Error(), nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Login successful", resp, nil)
}

func (c *Controller) RefreshToken(ctx *gin.Context) {
	var req RefreshTokenRequest
	if !c.bind(ctx, &req) {
		return
	}
	pair, err := c.service.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		code := statusFor(err)
		if code == http.StatusNotFound {
			code = http.StatusUnauthorized
		}
		response.RespondJSON(ctx, "error", code, "Invalid or expired refresh token", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Token refreshed successfully", pair, nil)
}

func (c *Controller) GetMe(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}
	user, err := c.service.Me(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), err.Error(), nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "User retrieved successfully", user, nil)
}
