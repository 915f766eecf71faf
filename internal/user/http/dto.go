package http

import (
	"time"

	"github.com/beatbook/dj-agency-backend/internal/user"
)

// RegisterRequest is the payload for POST /v1/auth/register.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the payload for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the shape of user data returned in API responses.
type UserResponse struct {
	ID            string                 `json:"id"`
	Email         string                 `json:"email"`
	DisplayName   *string                `json:"display_name,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	LastLoginAt   *time.Time             `json:"last_login_at,omitempty"`
	IsActive      bool                   `json:"is_active"`
	IsSystemAdmin bool                   `json:"is_system_admin"`
	Agencies      []user.UserAgencyBrief `json:"agencies"`
}

// LoginResponse is the data payload for POST /v1/auth/login.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// NewUserResponse converts a domain user to its API representation.
func NewUserResponse(u *user.User) UserResponse {
	agencies := u.Agencies
	if agencies == nil {
		agencies = []user.UserAgencyBrief{}
	}

	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		CreatedAt:     u.CreatedAt,
		LastLoginAt:   u.LastLoginAt,
		IsActive:      u.IsActive,
		IsSystemAdmin: u.IsSystemAdmin,
		Agencies:      agencies,
	}
}
