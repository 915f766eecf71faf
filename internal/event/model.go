package event

import (
	"net/http"
	"time"

	"github.com/beatbook/dj-agency-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, "event not found")
	ErrNameRequired = apperror.New(http.StatusBadRequest, "event name is required")
	ErrDateRequired = apperror.New(http.StatusBadRequest, "event date is required")
)

// Event is a booked engagement. Events are created directly or by converting
// an approved reservation.
type Event struct {
	ID        string
	AgencyID  string
	Name      string
	Location  *string
	EventDate time.Time
	StartTime string
	EndTime   string
	CreatedAt time.Time
}

// Filter defines filter options for listing events.
type Filter struct {
	AgencyID *string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
