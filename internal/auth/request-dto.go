package auth

import "theaterbook/internal/users"

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"otp" validate:"required,len=6,numeric"`
}

type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by every successful login.
type AuthResponse struct {
	User *users.User `json:"user"`
	TokenPair
}
