package http

import (
	"time"

	"github.com/beatbook/dj-agency-backend/internal/event"
)

type CreateEventRequest struct {
	AgencyID  string  `json:"agency_id" binding:"required,uuid"`
	Name      string  `json:"name" binding:"required"`
	Location  *string `json:"location"`
	EventDate string  `json:"event_date" binding:"required,datetime=2006-01-02"`
	StartTime string  `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime   string  `json:"end_time" binding:"omitempty,datetime=15:04"`
}

type ListEventsRequest struct {
	AgencyID *string `form:"agency_id" binding:"omitempty,uuid"`
	From     *string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       *string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page     int     `form:"page" binding:"omitempty,min=1"`
	Limit    int     `form:"limit" binding:"omitempty,min=1,max=200"`
}

type EventResponse struct {
	ID        string    `json:"id"`
	AgencyID  string    `json:"agency_id"`
	Name      string    `json:"name"`
	Location  *string   `json:"location,omitempty"`
	EventDate string    `json:"event_date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

func NewEventResponse(e *event.Event) EventResponse {
	return EventResponse{
		ID:        e.ID,
		AgencyID:  e.AgencyID,
		Name:      e.Name,
		Location:  e.Location,
		EventDate: e.EventDate.Format("2006-01-02"),
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		CreatedAt: e.CreatedAt,
	}
}
