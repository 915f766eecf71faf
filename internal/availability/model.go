package availability

import (
	"net/http"
	"time"

	"github.com/beatbook/dj-agency-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "availability slot not found")
	ErrDJRequired    = apperror.New(http.StatusBadRequest, "dj id is required")
	ErrDateRequired  = apperror.New(http.StatusBadRequest, "date is required")
	ErrBadTimeRange  = apperror.New(http.StatusBadRequest, "end time must be after start time")
	ErrBadDateRange  = apperror.New(http.StatusBadRequest, "end date must not be before start date")
	ErrInvalidStatus = apperror.New(http.StatusBadRequest, "invalid availability status")
)

// Slot statuses matching the database enum.
const (
	StatusAvailable   = "available"
	StatusBooked      = "booked"
	StatusUnavailable = "unavailable"
)

// Display colors the calendar frontend expects per status.
const (
	ColorAvailable   = "#10b981"
	ColorBooked      = "#3b82f6"
	ColorUnavailable = "#ef4444"
)

// Default time range for whole-day slots.
const (
	DayStart = "00:00"
	DayEnd   = "23:59"
)

// Conflict severities. Booked slots outrank unavailable ones because they
// represent money already committed.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Slot is one per-DJ, per-day availability record. Times are zero-padded
// "HH:MM" strings so lexicographic comparison matches chronological order.
// At most one slot exists per (dj_id, date, start_time); writes go through
// an upsert on that key.
type Slot struct {
	ID        string
	DJID      string
	Date      time.Time
	StartTime string
	EndTime   string
	AllDay    bool
	Status    string
	EventID   *string
	Reason    *string
	Notes     *string
	ColorHint *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// EventName is populated by queries that join the owning event.
	EventName *string
}

// Conflict is one overlapping slot found by the conflict detector, tagged
// with a severity.
type Conflict struct {
	Slot     Slot
	Severity string
}

// ConflictReport is the detector's verdict for a DJ, date and time range.
// BlockedByReservation is set when a reservation claims part of the range
// without a slot conflict: an unexpired hold, or a confirmed/approved
// reservation that has not been converted to an event yet.
type ConflictReport struct {
	Available            bool
	BlockedByReservation bool
	Conflicts            []Conflict
}

// Filter defines filter options for listing slots.
type Filter struct {
	DJID     *string
	AgencyID *string
	Status   *string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// Stats summarizes a DJ's calendar for one month.
type Stats struct {
	Available   int `json:"available"`
	Booked      int `json:"booked"`
	Unavailable int `json:"unavailable"`
	Total       int `json:"total"`
}

// ValidStatus reports whether s is a known slot status.
func ValidStatus(s string) bool {
	return s == StatusAvailable || s == StatusBooked || s == StatusUnavailable
}

// SeverityFor classifies how serious a conflict with a slot of the given
// status is.
func SeverityFor(status string) string {
	switch status {
	case StatusBooked:
		return SeverityHigh
	case StatusUnavailable:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Overlaps reports whether the existing range [exStart, exEnd) overlaps the
// queried range [qStart, qEnd). Ranges are treated as half-open so that a
// slot ending exactly when the query starts does not conflict. The test is
// phrased as three clauses: the existing range covers the query's start,
// covers the query's end, or sits entirely inside the query.
func Overlaps(exStart, exEnd, qStart, qEnd string) bool {
	if exStart <= qStart && exEnd > qStart {
		return true
	}
	if exStart < qEnd && exEnd >= qEnd {
		return true
	}
	return exStart >= qStart && exEnd <= qEnd
}

// normalizeRange fills in whole-day defaults for missing times.
func normalizeRange(start, end string) (string, string) {
	if start == "" {
		start = DayStart
	}
	if end == "" {
		end = DayEnd
	}
	return start, end
}
