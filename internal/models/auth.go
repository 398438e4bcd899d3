package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// LoginRequest represents the username/password token request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate implements validation.Validatable
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RefreshTokenRequest represents the request to refresh an access token
type RefreshTokenRequest struct {
	Refresh string `json:"refresh"`
}

// Validate implements validation.Validatable
func (r RefreshTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Refresh, validation.Required),
	)
}

// TokenResponse is returned by the token endpoints
type TokenResponse struct {
	Token    string    `json:"token"`
	Refresh  string    `json:"refresh"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
}

// RefreshTokenResponse carries a new access token
type RefreshTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
