package http

import (
	"time"

	"github.com/beatbook/dj-agency-backend/internal/reservation"
)

type CreateReservationRequest struct {
	AgencyID            string   `json:"agency_id" binding:"required,uuid"`
	DJID                *string  `json:"dj_id" binding:"omitempty,uuid"`
	ClientID            *string  `json:"client_id" binding:"omitempty,uuid"`
	ClientName          string   `json:"client_name" binding:"required"`
	ClientEmail         *string  `json:"client_email" binding:"omitempty,email"`
	ClientPhone         *string  `json:"client_phone"`
	EventType           *string  `json:"event_type"`
	EventDate           string   `json:"event_date" binding:"required,datetime=2006-01-02"`
	EventStartTime      string   `json:"event_start_time" binding:"omitempty,datetime=15:04"`
	EventEndTime        string   `json:"event_end_time" binding:"omitempty,datetime=15:04"`
	EventDurationHours  *float64 `json:"event_duration_hours" binding:"omitempty,gt=0"`
	HoldDurationMinutes *int     `json:"hold_duration_minutes" binding:"omitempty,min=1,max=1440"`
	Notes               *string  `json:"notes"`
}

type ListReservationsRequest struct {
	AgencyID  *string  `form:"agency_id" binding:"omitempty,uuid"`
	DJID      *string  `form:"dj_id" binding:"omitempty,uuid"`
	ClientID  *string  `form:"client_id" binding:"omitempty,uuid"`
	Statuses  []string `form:"status" binding:"omitempty,dive,oneof=pending hold confirmed approved cancelled rejected expired"`
	EventType *string  `form:"event_type"`
	From      *string  `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        *string  `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Search    string   `form:"search"`
	Page      int      `form:"page" binding:"omitempty,min=1"`
	Limit     int      `form:"limit" binding:"omitempty,min=1,max=200"`
}

type ExtendHoldRequest struct {
	Minutes int `json:"minutes" binding:"omitempty,min=1,max=1440"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ConvertRequest struct {
	Name     string  `json:"name"`
	Location *string `json:"location"`
}

type ByNumberRequest struct {
	Number string `uri:"number" binding:"required"`
}

type ReservationResponse struct {
	ID                  string     `json:"id"`
	ReservationNumber   string     `json:"reservation_number"`
	AgencyID            string     `json:"agency_id"`
	DJID                *string    `json:"dj_id,omitempty"`
	ClientID            *string    `json:"client_id,omitempty"`
	ClientName          string     `json:"client_name"`
	ClientEmail         *string    `json:"client_email,omitempty"`
	ClientPhone         *string    `json:"client_phone,omitempty"`
	EventType           *string    `json:"event_type,omitempty"`
	EventDate           string     `json:"event_date"`
	EventStartTime      string     `json:"event_start_time"`
	EventEndTime        string     `json:"event_end_time"`
	EventDurationHours  *float64   `json:"event_duration_hours,omitempty"`
	Status              string     `json:"status"`
	HoldExpiresAt       *time.Time `json:"hold_expires_at,omitempty"`
	HoldDurationMinutes *int       `json:"hold_duration_minutes,omitempty"`
	ConfirmedBy         *string    `json:"confirmed_by,omitempty"`
	ConfirmedAt         *time.Time `json:"confirmed_at,omitempty"`
	ApprovedBy          *string    `json:"approved_by,omitempty"`
	ApprovedAt          *time.Time `json:"approved_at,omitempty"`
	CancelledBy         *string    `json:"cancelled_by,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason  *string    `json:"cancellation_reason,omitempty"`
	RejectedBy          *string    `json:"rejected_by,omitempty"`
	RejectedAt          *time.Time `json:"rejected_at,omitempty"`
	RejectionReason     *string    `json:"rejection_reason,omitempty"`
	EventID             *string    `json:"event_id,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:                  r.ID,
		ReservationNumber:   r.ReservationNumber,
		AgencyID:            r.AgencyID,
		DJID:                r.DJID,
		ClientID:            r.ClientID,
		ClientName:          r.ClientName,
		ClientEmail:         r.ClientEmail,
		ClientPhone:         r.ClientPhone,
		EventType:           r.EventType,
		EventDate:           r.EventDate.Format("2006-01-02"),
		EventStartTime:      r.EventStartTime,
		EventEndTime:        r.EventEndTime,
		EventDurationHours:  r.EventDurationHours,
		Status:              r.Status,
		HoldExpiresAt:       r.HoldExpiresAt,
		HoldDurationMinutes: r.HoldDurationMinutes,
		ConfirmedBy:         r.ConfirmedBy,
		ConfirmedAt:         r.ConfirmedAt,
		ApprovedBy:          r.ApprovedBy,
		ApprovedAt:          r.ApprovedAt,
		CancelledBy:         r.CancelledBy,
		CancelledAt:         r.CancelledAt,
		CancellationReason:  r.CancellationReason,
		RejectedBy:          r.RejectedBy,
		RejectedAt:          r.RejectedAt,
		RejectionReason:     r.RejectionReason,
		EventID:             r.EventID,
		Notes:               r.Notes,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func NewReservationResponses(reservations []*reservation.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		out[i] = NewReservationResponse(r)
	}
	return out
}
