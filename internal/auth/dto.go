package auth

import "github.com/campushub/portal-backend/internal/users"

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Name       string `json:"name" validate:"required"`
	Role       string `json:"role" validate:"required,oneof=teacher student"`
	Department string `json:"department" validate:"required"`
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the bearer token and the authenticated profile.
type AuthResponse struct {
	AccessToken string        `json:"accessToken"`
	User        users.UserDTO `json:"user"`
}
