package reservation

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/beatbook/dj-agency-backend/internal/availability"
	"github.com/beatbook/dj-agency-backend/internal/db"
	"github.com/beatbook/dj-agency-backend/internal/event"
	"github.com/beatbook/dj-agency-backend/internal/notify"
	"github.com/beatbook/dj-agency-backend/internal/pkg/clock"
)

// AvailabilityChecker is the slice of the availability service used for the
// advisory pre-check before a hold insert.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, djID string, date time.Time, startTime, endTime string) (*availability.ConflictReport, error)
}

// SlotWriter books the calendar slot when a reservation converts to an
// event.
type SlotWriter interface {
	UpsertTx(ctx context.Context, tx pgx.Tx, s *availability.Slot) error
}

// EventCreator inserts the event row during conversion.
type EventCreator interface {
	CreateTx(ctx context.Context, tx pgx.Tx, e *event.Event) error
}

type CreateRequest struct {
	AgencyID            string
	DJID                *string
	ClientID            *string
	ClientName          string
	ClientEmail         *string
	ClientPhone         *string
	EventType           *string
	EventDate           time.Time
	EventStartTime      string
	EventEndTime        string
	EventDurationHours  *float64
	HoldDurationMinutes *int
	Notes               *string
}

type ConvertRequest struct {
	Name     string
	Location *string
}

type Service interface {
	// Create registers a pending reservation without touching the DJ's
	// calendar.
	Create(ctx context.Context, req CreateRequest) (*Reservation, error)
	// CreateHold places a hold that blocks the DJ's calendar until it is
	// confirmed, released or expired.
	CreateHold(ctx context.Context, req CreateRequest) (*Reservation, error)

	GetByID(ctx context.Context, id string) (*Reservation, error)
	GetByNumber(ctx context.Context, number string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	RequiringAction(ctx context.Context, agencyID *string) ([]*Reservation, error)
	Stats(ctx context.Context, agencyID *string) (*Stats, error)

	Confirm(ctx context.Context, id, actor string) (*Reservation, error)
	Approve(ctx context.Context, id, actor string) (*Reservation, error)
	Cancel(ctx context.Context, id, actor, reason string) (*Reservation, error)
	Reject(ctx context.Context, id, actor, reason string) (*Reservation, error)
	ExtendHold(ctx context.Context, id string, minutes int) (*Reservation, error)
	ConvertToEvent(ctx context.Context, id string, req ConvertRequest) (*Reservation, *event.Event, error)

	ExpireOldHolds(ctx context.Context) (int64, error)
}

type service struct {
	repo         Repository
	checker      AvailabilityChecker
	slots        SlotWriter
	events       EventCreator
	pool         *pgxpool.Pool
	publisher    notify.Publisher
	email        notify.EmailSender
	clock        clock.Clock
	holdDuration time.Duration
}

func NewService(
	repo Repository,
	checker AvailabilityChecker,
	slots SlotWriter,
	events EventCreator,
	pool *pgxpool.Pool,
	publisher notify.Publisher,
	email notify.EmailSender,
	clk clock.Clock,
	holdDuration time.Duration,
) Service {
	if holdDuration <= 0 {
		holdDuration = 30 * time.Minute
	}
	return &service{
		repo:         repo,
		checker:      checker,
		slots:        slots,
		events:       events,
		pool:         pool,
		publisher:    publisher,
		email:        email,
		clock:        clk,
		holdDuration: holdDuration,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	r, err := s.buildReservation(req)
	if err != nil {
		return nil, err
	}
	r.Status = StatusPending

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) CreateHold(ctx context.Context, req CreateRequest) (*Reservation, error) {
	if req.DJID == nil {
		return nil, ErrDJRequired
	}

	r, err := s.buildReservation(req)
	if err != nil {
		return nil, err
	}

	minutes := int(s.holdDuration / time.Minute)
	if req.HoldDurationMinutes != nil && *req.HoldDurationMinutes > 0 {
		minutes = *req.HoldDurationMinutes
	}
	now := s.clock.Now()
	expiry := now.Add(time.Duration(minutes) * time.Minute)
	r.Status = StatusHold
	r.HoldExpiresAt = &expiry
	r.HoldDurationMinutes = &minutes

	// Pre-check for a detailed conflict report. The insert below re-checks
	// atomically, so this read is advisory only.
	report, err := s.checker.CheckAvailability(ctx, *req.DJID, r.EventDate, r.EventStartTime, r.EventEndTime)
	if err != nil {
		return nil, err
	}
	if !report.Available {
		s.publishConflict(req, report)
		return nil, ErrSlotTaken
	}

	if err := s.repo.CreateHold(ctx, r); err != nil {
		return nil, err
	}

	s.publish(notify.TopicHoldCreated, r, nil, "")
	s.sendEmail(r, "Reservation on hold",
		fmt.Sprintf("Your reservation %s is on hold until %s.", r.ReservationNumber, expiry.Format(time.RFC1123)))
	return r, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByNumber(ctx context.Context, number string) (*Reservation, error) {
	return s.repo.GetByNumber(ctx, number)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) RequiringAction(ctx context.Context, agencyID *string) ([]*Reservation, error) {
	return s.repo.RequiringAction(ctx, agencyID, s.clock.Now())
}

func (s *service) Stats(ctx context.Context, agencyID *string) (*Stats, error) {
	return s.repo.Stats(ctx, agencyID)
}

func (s *service) Confirm(ctx context.Context, id, actor string) (*Reservation, error) {
	r, err := s.repo.Confirm(ctx, id, actor, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.publish(notify.TopicReservationConfirmed, r, &actor, "")
	s.sendEmail(r, "Reservation confirmed",
		fmt.Sprintf("Your reservation %s has been confirmed.", r.ReservationNumber))
	return r, nil
}

func (s *service) Approve(ctx context.Context, id, actor string) (*Reservation, error) {
	r, err := s.repo.Approve(ctx, id, actor, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.publish(notify.TopicReservationApproved, r, &actor, "")
	s.sendEmail(r, "Reservation approved",
		fmt.Sprintf("Your reservation %s has been approved.", r.ReservationNumber))
	return r, nil
}

func (s *service) Cancel(ctx context.Context, id, actor, reason string) (*Reservation, error) {
	r, err := s.repo.Cancel(ctx, id, actor, reason, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.publish(notify.TopicReservationCancelled, r, &actor, reason)
	s.sendEmail(r, "Reservation cancelled",
		fmt.Sprintf("Your reservation %s has been cancelled.", r.ReservationNumber))
	return r, nil
}

func (s *service) Reject(ctx context.Context, id, actor, reason string) (*Reservation, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	r, err := s.repo.Reject(ctx, id, actor, reason, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.publish(notify.TopicReservationRejected, r, &actor, reason)
	s.sendEmail(r, "Reservation rejected",
		fmt.Sprintf("Your reservation %s has been rejected: %s", r.ReservationNumber, reason))
	return r, nil
}

func (s *service) ExtendHold(ctx context.Context, id string, minutes int) (*Reservation, error) {
	if minutes <= 0 {
		minutes = int(s.holdDuration / time.Minute)
	}
	return s.repo.ExtendHold(ctx, id, minutes, s.clock.Now())
}

// ConvertToEvent turns a confirmed or approved reservation into a real
// event. The event insert, the reservation link and the booked calendar
// slot are one transaction.
func (s *service) ConvertToEvent(ctx context.Context, id string, req ConvertRequest) (*Reservation, *event.Event, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !CanConvert(r.Status) {
		return nil, nil, ErrInvalidTransition("convert", r.Status)
	}

	name := req.Name
	if name == "" {
		name = r.ClientName + " booking"
	}

	type converted struct {
		res *Reservation
		evt *event.Event
	}
	out, err := db.RunInTx(ctx, s.pool, func(tx pgx.Tx) (converted, error) {
		evt := &event.Event{
			AgencyID:  r.AgencyID,
			Name:      name,
			Location:  req.Location,
			EventDate: r.EventDate,
			StartTime: r.EventStartTime,
			EndTime:   r.EventEndTime,
		}
		if err := s.events.CreateTx(ctx, tx, evt); err != nil {
			return converted{}, err
		}

		updated, err := s.repo.AttachEventTx(ctx, tx, r.ID, evt.ID)
		if err != nil {
			return converted{}, err
		}

		if r.DJID != nil {
			color := availability.ColorBooked
			slot := &availability.Slot{
				DJID:      *r.DJID,
				Date:      r.EventDate,
				StartTime: r.EventStartTime,
				EndTime:   r.EventEndTime,
				Status:    availability.StatusBooked,
				EventID:   &evt.ID,
				ColorHint: &color,
			}
			if err := s.slots.UpsertTx(ctx, tx, slot); err != nil {
				return converted{}, err
			}
		}
		return converted{res: updated, evt: evt}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out.res, out.evt, nil
}

// ExpireOldHolds transitions every overdue hold to expired. Holds never
// write availability slots, so expiring the reservation is all it takes to
// free the window for the next caller.
func (s *service) ExpireOldHolds(ctx context.Context) (int64, error) {
	count, err := s.repo.ExpireOldHolds(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		if err := s.publisher.Publish(notify.TopicHoldsExpired, notify.HoldsExpiredEvent{
			Expired:    int(count),
			OccurredAt: s.clock.Now(),
		}); err != nil {
			log.Printf("publish %s failed: %v", notify.TopicHoldsExpired, err)
		}
	}
	return count, nil
}

func (s *service) buildReservation(req CreateRequest) (*Reservation, error) {
	if req.EventDate.IsZero() {
		return nil, ErrDateRequired
	}

	start, end := req.EventStartTime, req.EventEndTime
	if start == "" {
		start = availability.DayStart
	}
	if end == "" {
		end = availability.DayEnd
	}
	if end <= start {
		return nil, availability.ErrBadTimeRange
	}

	duration := req.EventDurationHours
	if duration == nil {
		if hours, ok := durationHours(start, end); ok {
			duration = &hours
		}
	}

	return &Reservation{
		ReservationNumber:  newReservationNumber(s.clock.Now()),
		AgencyID:           req.AgencyID,
		DJID:               req.DJID,
		ClientID:           req.ClientID,
		ClientName:         req.ClientName,
		ClientEmail:        req.ClientEmail,
		ClientPhone:        req.ClientPhone,
		EventType:          req.EventType,
		EventDate:          req.EventDate,
		EventStartTime:     start,
		EventEndTime:       end,
		EventDurationHours: duration,
		Notes:              req.Notes,
	}, nil
}

func (s *service) publish(topic string, r *Reservation, actor *string, reason string) {
	evt := notify.ReservationEvent{
		ReservationID:     r.ID,
		ReservationNumber: r.ReservationNumber,
		AgencyID:          r.AgencyID,
		DJID:              r.DJID,
		Status:            r.Status,
		EventDate:         r.EventDate.Format("2006-01-02"),
		EventStartTime:    r.EventStartTime,
		EventEndTime:      r.EventEndTime,
		ClientName:        r.ClientName,
		HoldExpiresAt:     r.HoldExpiresAt,
		Actor:             actor,
		Reason:            reason,
		OccurredAt:        s.clock.Now(),
	}
	if r.ClientEmail != nil {
		evt.ClientEmail = *r.ClientEmail
	}
	if err := s.publisher.Publish(topic, evt); err != nil {
		log.Printf("publish %s failed: %v", topic, err)
	}
}

func (s *service) publishConflict(req CreateRequest, report *availability.ConflictReport) {
	severity := availability.SeverityHigh
	if !report.BlockedByReservation && len(report.Conflicts) > 0 {
		severity = report.Conflicts[0].Severity
	}
	evt := notify.ConflictEvent{
		DJID:       *req.DJID,
		EventDate:  req.EventDate.Format("2006-01-02"),
		StartTime:  req.EventStartTime,
		EndTime:    req.EventEndTime,
		Severity:   severity,
		OccurredAt: s.clock.Now(),
	}
	if err := s.publisher.Publish(notify.TopicAvailabilityConflict, evt); err != nil {
		log.Printf("publish %s failed: %v", notify.TopicAvailabilityConflict, err)
	}
}

// sendEmail notifies the client best effort. Failures are logged and never
// fail the workflow action.
func (s *service) sendEmail(r *Reservation, subject, body string) {
	if s.email == nil || r.ClientEmail == nil || *r.ClientEmail == "" {
		return
	}
	html := fmt.Sprintf("<p>Hi %s,</p><p>%s</p>", r.ClientName, body)
	if err := s.email.Send(*r.ClientEmail, subject, html); err != nil {
		log.Printf("send email to %s failed: %v", *r.ClientEmail, err)
	}
}

const numberCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newReservationNumber generates RSV-YYYYMMDD-XXXXXX with a random suffix,
// matching the numbers the previous system handed to clients.
func newReservationNumber(now time.Time) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to a time-derived suffix; uniqueness is still enforced
		// by the database.
		return fmt.Sprintf("RSV-%s-%06d", now.Format("20060102"), now.UnixNano()%1000000)
	}
	for i, b := range buf {
		buf[i] = numberCharset[int(b)%len(numberCharset)]
	}
	return fmt.Sprintf("RSV-%s-%s", now.Format("20060102"), string(buf))
}

func durationHours(start, end string) (float64, bool) {
	st, err1 := time.Parse("15:04", start)
	en, err2 := time.Parse("15:04", end)
	if err1 != nil || err2 != nil || !en.After(st) {
		return 0, false
	}
	return en.Sub(st).Hours(), true
}
