package dto

import (
	"time"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// SessionResponse is returned on register and login.
type SessionResponse struct {
	Token       string          `json:"token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	User        UserResponse    `json:"user"`
	RouteAccess map[string]bool `json:"route_access"`
}

// UserResponse is the public account shape.
type UserResponse struct {
	ID         string            `json:"id"`
	Email      string            `json:"email"`
	Name       string            `json:"name"`
	Role       domain.Role       `json:"role"`
	Department *string           `json:"department,omitempty"`
	Status     domain.UserStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}
