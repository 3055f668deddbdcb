package dto

import "time"

// LoginRequest represents the operator login payload
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=255" example:"operator"`
	Password string `json:"password" validate:"required,min=1,max=255" example:"s3cret"`
}

// LoginResponse carries the session token issued on successful login.
// The token is also set as an HTTP-only cookie.
type LoginResponse struct {
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LogoutResponse confirms session termination
type LogoutResponse struct {
	Message string `json:"message"`
}
