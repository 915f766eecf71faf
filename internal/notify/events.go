// Package notify defines the event bus the reservation workflow publishes to,
// plus the best-effort email side channel.
package notify

import "time"

// Routing keys published on the bus. Consumers bind with patterns like
// "reservation.*".
const (
	TopicHoldCreated          = "reservation.hold_created"
	TopicReservationConfirmed = "reservation.confirmed"
	TopicReservationApproved  = "reservation.approved"
	TopicReservationCancelled = "reservation.cancelled"
	TopicReservationRejected  = "reservation.rejected"
	TopicHoldsExpired         = "reservation.holds_expired"
	TopicAvailabilityConflict = "availability.conflict"
)

// ReservationEvent is published on every reservation workflow transition.
// It carries enough information for downstream consumers to notify or log
// without querying the primary database.
type ReservationEvent struct {
	ReservationID     string     `json:"reservation_id"`
	ReservationNumber string     `json:"reservation_number"`
	AgencyID          string     `json:"agency_id"`
	DJID              *string    `json:"dj_id,omitempty"`
	Status            string     `json:"status"`
	EventDate         string     `json:"event_date"`
	EventStartTime    string     `json:"event_start_time,omitempty"`
	EventEndTime      string     `json:"event_end_time,omitempty"`
	ClientName        string     `json:"client_name,omitempty"`
	ClientEmail       string     `json:"client_email,omitempty"`
	HoldExpiresAt     *time.Time `json:"hold_expires_at,omitempty"`
	Actor             *string    `json:"actor,omitempty"`
	Reason            string     `json:"reason,omitempty"`
	OccurredAt        time.Time  `json:"occurred_at"`
}

// HoldsExpiredEvent is published after each sweeper pass that expired at
// least one hold.
type HoldsExpiredEvent struct {
	Expired    int       `json:"expired"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ConflictEvent is published when a conflict check blocks a hold.
type ConflictEvent struct {
	DJID       string    `json:"dj_id"`
	EventDate  string    `json:"event_date"`
	StartTime  string    `json:"start_time,omitempty"`
	EndTime    string    `json:"end_time,omitempty"`
	Severity   string    `json:"severity"`
	OccurredAt time.Time `json:"occurred_at"`
}
