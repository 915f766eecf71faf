package http

import (
	"time"

	"github.com/beatbook/dj-agency-backend/internal/agency"
)

type CreateAgencyRequest struct {
	Name         string  `json:"name" binding:"required"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
	Phone        *string `json:"phone"`
}

type UpdateAgencyRequest struct {
	Name         *string `json:"name"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
	Phone        *string `json:"phone"`
}

type memberURIRequest struct {
	ID     string `uri:"id" binding:"required,uuid"`
	UserID string `uri:"user_id" binding:"required,uuid"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"required,oneof=owner admin staff"`
}

type AgencyResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail *string   `json:"contact_email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewAgencyResponse(a *agency.Agency) AgencyResponse {
	return AgencyResponse{
		ID:           a.ID,
		Name:         a.Name,
		ContactEmail: a.ContactEmail,
		Phone:        a.Phone,
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt,
	}
}

type MemberResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name,omitempty"`
	Role        string    `json:"role"`
	AddedAt     time.Time `json:"added_at"`
}

func NewMemberResponse(m *agency.Member) MemberResponse {
	return MemberResponse{
		UserID:      m.UserID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Role:        m.Role,
		AddedAt:     m.AddedAt,
	}
}
