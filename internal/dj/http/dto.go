package http

import (
	"time"

	"github.com/beatbook/dj-agency-backend/internal/dj"
)

type CreateDJRequest struct {
	AgencyID   string   `json:"agency_id" binding:"required,uuid"`
	Name       string   `json:"name" binding:"required"`
	Specialty  *string  `json:"specialty"`
	Rating     *float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
	HourlyRate *float64 `json:"hourly_rate" binding:"omitempty,gt=0"`
	Bio        *string  `json:"bio"`
}

type UpdateDJRequest struct {
	Name       *string  `json:"name"`
	Specialty  *string  `json:"specialty"`
	Rating     *float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
	HourlyRate *float64 `json:"hourly_rate" binding:"omitempty,gt=0"`
	Bio        *string  `json:"bio"`
	IsActive   *bool    `json:"is_active"`
}

type ListDJsRequest struct {
	AgencyID   *string `form:"agency_id" binding:"omitempty,uuid"`
	Specialty  *string `form:"specialty"`
	ActiveOnly bool    `form:"active_only"`
	Search     string  `form:"search"`
	Page       int     `form:"page" binding:"omitempty,min=1"`
	Limit      int     `form:"limit" binding:"omitempty,min=1,max=200"`
}

type DJResponse struct {
	ID            string    `json:"id"`
	AgencyID      string    `json:"agency_id"`
	Name          string    `json:"name"`
	Specialty     *string   `json:"specialty,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	HourlyRate    *float64  `json:"hourly_rate,omitempty"`
	Bio           *string   `json:"bio,omitempty"`
	IsActive      bool      `json:"is_active"`
	PhotoPath     *string   `json:"photo_path,omitempty"`
	ThumbnailPath *string   `json:"thumbnail_path,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewDJResponse(d *dj.DJ) DJResponse {
	return DJResponse{
		ID:            d.ID,
		AgencyID:      d.AgencyID,
		Name:          d.Name,
		Specialty:     d.Specialty,
		Rating:        d.Rating,
		HourlyRate:    d.HourlyRate,
		Bio:           d.Bio,
		IsActive:      d.IsActive,
		PhotoPath:     d.PhotoPath,
		ThumbnailPath: d.ThumbnailPath,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
