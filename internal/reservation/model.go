package reservation

import (
	"fmt"
	"net/http"
	"time"

	"github.com/beatbook/dj-agency-backend/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.New(http.StatusNotFound, "reservation not found")
	ErrDateRequired   = apperror.New(http.StatusBadRequest, "event date is required")
	ErrDJRequired     = apperror.New(http.StatusBadRequest, "dj id is required for a hold")
	ErrReasonRequired = apperror.New(http.StatusBadRequest, "a reason is required")
	ErrSlotTaken      = apperror.New(http.StatusConflict, "dj is not available for the requested time")
	ErrNotOnHold      = apperror.New(http.StatusBadRequest, "reservation is not on hold")
)

// Reservation statuses. A hold is a reservation that blocks the DJ's
// calendar until hold_expires_at; the sweeper moves stale holds to expired,
// which makes the sweep idempotent and keeps an audit trail.
const (
	StatusPending   = "pending"
	StatusHold      = "hold"
	StatusConfirmed = "confirmed"
	StatusApproved  = "approved"
	StatusCancelled = "cancelled"
	StatusRejected  = "rejected"
	StatusExpired   = "expired"
)

// Allowed source statuses per workflow action. Transitions are enforced in
// SQL with a guarded UPDATE so a confirm cannot race the expiry sweeper.
var (
	confirmFrom = []string{StatusPending, StatusHold}
	approveFrom = []string{StatusConfirmed}
	cancelFrom  = []string{StatusPending, StatusHold, StatusConfirmed, StatusApproved}
	rejectFrom  = []string{StatusPending, StatusHold}
	convertFrom = []string{StatusConfirmed, StatusApproved}
)

// CanConfirm reports whether a reservation in the given status may be
// confirmed. The other Can* helpers mirror the SQL guards for use in tests
// and pre-checks.
func CanConfirm(status string) bool { return contains(confirmFrom, status) }
func CanApprove(status string) bool { return contains(approveFrom, status) }
func CanCancel(status string) bool  { return contains(cancelFrom, status) }
func CanReject(status string) bool  { return contains(rejectFrom, status) }
func CanConvert(status string) bool { return contains(convertFrom, status) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ErrInvalidTransition builds the 400 returned when a workflow action is not
// legal from the reservation's current status.
func ErrInvalidTransition(action, current string) error {
	return apperror.New(http.StatusBadRequest,
		fmt.Sprintf("cannot %s a reservation with status %q", action, current))
}

// Reservation is a booking request moving through the workflow
// pending/hold -> confirmed -> approved, or out to a terminal status.
// Deletion is modeled as cancellation; rows are never removed.
type Reservation struct {
	ID                string
	ReservationNumber string
	AgencyID          string
	DJID              *string
	ClientID          *string
	ClientName        string
	ClientEmail       *string
	ClientPhone       *string
	EventType         *string

	EventDate          time.Time
	EventStartTime     string
	EventEndTime       string
	EventDurationHours *float64

	Status              string
	HoldExpiresAt       *time.Time
	HoldDurationMinutes *int

	ConfirmedBy        *string
	ConfirmedAt        *time.Time
	ApprovedBy         *string
	ApprovedAt         *time.Time
	CancelledBy        *string
	CancelledAt        *time.Time
	CancellationReason *string
	RejectedBy         *string
	RejectedAt         *time.Time
	RejectionReason    *string

	EventID *string
	Notes   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter defines filter options for listing reservations.
type Filter struct {
	AgencyID  *string
	DJID      *string
	ClientID  *string
	Statuses  []string
	EventType *string
	From      *time.Time
	To        *time.Time
	// Search matches reservation number, client name and client email.
	Search   string
	Page     int
	PageSize int
}

// Stats summarizes an agency's reservations by status.
type Stats struct {
	Pending   int `json:"pending"`
	Hold      int `json:"hold"`
	Confirmed int `json:"confirmed"`
	Approved  int `json:"approved"`
	Cancelled int `json:"cancelled"`
	Rejected  int `json:"rejected"`
	Expired   int `json:"expired"`
	Total     int `json:"total"`
}
