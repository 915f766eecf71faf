package http

import (
	"time"

	"github.com/beatbook/dj-agency-backend/internal/availability"
	djhttp "github.com/beatbook/dj-agency-backend/internal/dj/http"
)

// Query parameter names follow the calendar frontend's existing API, which
// mixes Spanish field names (fecha, hora_inicio) with English ones.

type ListSlotsRequest struct {
	DJID       *string `form:"dj_id" binding:"omitempty,uuid"`
	AgencyID   *string `form:"agency_id" binding:"omitempty,uuid"`
	Estado     *string `form:"estado" binding:"omitempty,oneof=available booked unavailable"`
	FechaDesde *string `form:"fecha_desde" binding:"omitempty,datetime=2006-01-02"`
	FechaHasta *string `form:"fecha_hasta" binding:"omitempty,datetime=2006-01-02"`
	Page       int     `form:"page" binding:"omitempty,min=1"`
	Limit      int     `form:"limit" binding:"omitempty,min=1,max=200"`
}

type UpsertSlotRequest struct {
	DJID       string  `json:"dj_id" binding:"required,uuid"`
	Fecha      string  `json:"fecha" binding:"required,datetime=2006-01-02"`
	HoraInicio string  `json:"hora_inicio" binding:"omitempty,datetime=15:04"`
	HoraFin    string  `json:"hora_fin" binding:"omitempty,datetime=15:04"`
	AllDay     bool    `json:"all_day"`
	Estado     string  `json:"estado" binding:"omitempty,oneof=available booked unavailable"`
	EventID    *string `json:"event_id" binding:"omitempty,uuid"`
	Reason     *string `json:"reason"`
	Notes      *string `json:"notes"`
	ColorHint  *string `json:"color_hint"`
}

type CheckRequest struct {
	DJID       string `form:"dj_id" binding:"required,uuid"`
	Fecha      string `form:"fecha" binding:"required,datetime=2006-01-02"`
	HoraInicio string `form:"hora_inicio" binding:"omitempty,datetime=15:04"`
	HoraFin    string `form:"hora_fin" binding:"omitempty,datetime=15:04"`
}

type ConflictsRequest struct {
	DJID       string  `form:"dj_id" binding:"required,uuid"`
	Fecha      string  `form:"fecha" binding:"required,datetime=2006-01-02"`
	HoraInicio string  `form:"hora_inicio" binding:"omitempty,datetime=15:04"`
	HoraFin    string  `form:"hora_fin" binding:"omitempty,datetime=15:04"`
	ExcludeID  *string `form:"exclude_id" binding:"omitempty,uuid"`
}

type AvailableDJsRequest struct {
	Fecha      string  `form:"fecha" binding:"required,datetime=2006-01-02"`
	HoraInicio string  `form:"hora_inicio" binding:"omitempty,datetime=15:04"`
	HoraFin    string  `form:"hora_fin" binding:"omitempty,datetime=15:04"`
	AgencyID   *string `form:"agency_id" binding:"omitempty,uuid"`
}

type SuggestionsRequest struct {
	OriginalDJID string  `form:"original_dj_id" binding:"required,uuid"`
	Fecha        string  `form:"fecha" binding:"required,datetime=2006-01-02"`
	HoraInicio   string  `form:"hora_inicio" binding:"omitempty,datetime=15:04"`
	HoraFin      string  `form:"hora_fin" binding:"omitempty,datetime=15:04"`
	AgencyID     *string `form:"agency_id" binding:"omitempty,uuid"`
}

type MonthRequest struct {
	Year  int `form:"year" binding:"required,min=2000,max=2100"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

type RangeRequest struct {
	FechaInicio string `form:"fecha_inicio" binding:"required,datetime=2006-01-02"`
	FechaFin    string `form:"fecha_fin" binding:"required,datetime=2006-01-02"`
}

type MarkUnavailableRequest struct {
	DJID   string  `json:"dj_id" binding:"required,uuid"`
	Fecha  string  `json:"fecha" binding:"required,datetime=2006-01-02"`
	Reason *string `json:"reason"`
	Notes  *string `json:"notes"`
}

type MarkAvailableRequest struct {
	DJID  string `json:"dj_id" binding:"required,uuid"`
	Fecha string `json:"fecha" binding:"required,datetime=2006-01-02"`
}

type ReserveForEventRequest struct {
	DJID       string `json:"dj_id" binding:"required,uuid"`
	Fecha      string `json:"fecha" binding:"required,datetime=2006-01-02"`
	EventID    string `json:"event_id" binding:"required,uuid"`
	HoraInicio string `json:"hora_inicio" binding:"omitempty,datetime=15:04"`
	HoraFin    string `json:"hora_fin" binding:"omitempty,datetime=15:04"`
}

type BlockRangeRequest struct {
	DJID        string  `json:"dj_id" binding:"required,uuid"`
	FechaInicio string  `json:"fecha_inicio" binding:"required,datetime=2006-01-02"`
	FechaFin    string  `json:"fecha_fin" binding:"required,datetime=2006-01-02"`
	Reason      *string `json:"reason"`
}

type DJURIRequest struct {
	DJID string `uri:"dj_id" binding:"required,uuid"`
}

type SlotResponse struct {
	ID        string    `json:"id"`
	DJID      string    `json:"dj_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	AllDay    bool      `json:"all_day"`
	Status    string    `json:"status"`
	EventID   *string   `json:"event_id,omitempty"`
	EventName *string   `json:"event_name,omitempty"`
	Reason    *string   `json:"reason,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	ColorHint *string   `json:"color_hint,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSlotResponse(s *availability.Slot) SlotResponse {
	return SlotResponse{
		ID:        s.ID,
		DJID:      s.DJID,
		Date:      s.Date.Format("2006-01-02"),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		AllDay:    s.AllDay,
		Status:    s.Status,
		EventID:   s.EventID,
		EventName: s.EventName,
		Reason:    s.Reason,
		Notes:     s.Notes,
		ColorHint: s.ColorHint,
		UpdatedAt: s.UpdatedAt,
	}
}

type ConflictResponse struct {
	Slot     SlotResponse `json:"slot"`
	Severity string       `json:"severity"`
}

func NewConflictResponses(conflicts []availability.Conflict) []ConflictResponse {
	out := make([]ConflictResponse, len(conflicts))
	for i, c := range conflicts {
		slot := c.Slot
		out[i] = ConflictResponse{Slot: NewSlotResponse(&slot), Severity: c.Severity}
	}
	return out
}

type CheckResponse struct {
	Available            bool               `json:"available"`
	BlockedByReservation bool               `json:"blocked_by_reservation"`
	Conflicts            []ConflictResponse `json:"conflicts"`
}

type SuggestionResponse struct {
	DJ    djhttp.DJResponse `json:"dj"`
	Score float64           `json:"score"`
}

func NewSuggestionResponses(suggestions []availability.Suggestion) []SuggestionResponse {
	out := make([]SuggestionResponse, len(suggestions))
	for i, s := range suggestions {
		out[i] = SuggestionResponse{DJ: djhttp.NewDJResponse(s.DJ), Score: s.Score}
	}
	return out
}
