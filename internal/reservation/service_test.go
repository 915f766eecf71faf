package reservation

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatbook/dj-agency-backend/internal/availability"
	"github.com/beatbook/dj-agency-backend/internal/pkg/clock"
)

// memRepo is an in-memory Repository that mirrors the SQL guards: workflow
// updates only apply from the allowed source statuses, and hold inserts fail
// when a blocking reservation overlaps.
type memRepo struct {
	mu   sync.Mutex
	byID map[string]*Reservation
	seq  int
	now  func() time.Time
}

func newMemRepo(now func() time.Time) *memRepo {
	return &memRepo{byID: map[string]*Reservation{}, now: now}
}

func (m *memRepo) insert(r *Reservation) {
	m.seq++
	r.ID = fmt.Sprintf("res-%d", m.seq)
	r.CreatedAt = m.now()
	r.UpdatedAt = r.CreatedAt
	m.byID[r.ID] = r
}

func (m *memRepo) Create(_ context.Context, r *Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insert(r)
	return nil
}

func (m *memRepo) CreateHold(_ context.Context, r *Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.byID {
		if other.DJID != nil && r.DJID != nil && *other.DJID == *r.DJID &&
			m.blocks(other) &&
			other.EventDate.Equal(r.EventDate) &&
			other.EventStartTime < r.EventEndTime && other.EventEndTime > r.EventStartTime {
			return ErrSlotTaken
		}
	}
	r.Status = StatusHold
	m.insert(r)
	return nil
}

// blocks mirrors the SQL blocking predicate: an unexpired hold, or a
// confirmed/approved reservation not yet converted to an event.
func (m *memRepo) blocks(r *Reservation) bool {
	if r.Status == StatusHold {
		return r.HoldExpiresAt != nil && r.HoldExpiresAt.After(m.now())
	}
	return (r.Status == StatusConfirmed || r.Status == StatusApproved) && r.EventID == nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *memRepo) GetByNumber(_ context.Context, number string) (*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.byID {
		if r.ReservationNumber == number {
			copied := *r
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) List(context.Context, Filter) ([]*Reservation, int, error) {
	return nil, 0, nil
}

func (m *memRepo) transition(id, action string, from []string, apply func(*Reservation)) (*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !contains(from, r.Status) {
		return nil, ErrInvalidTransition(action, r.Status)
	}
	apply(r)
	r.UpdatedAt = m.now()
	copied := *r
	return &copied, nil
}

func (m *memRepo) Confirm(_ context.Context, id, by string, at time.Time) (*Reservation, error) {
	return m.transition(id, "confirm", confirmFrom, func(r *Reservation) {
		r.Status = StatusConfirmed
		r.ConfirmedBy = &by
		r.ConfirmedAt = &at
	})
}

func (m *memRepo) Approve(_ context.Context, id, by string, at time.Time) (*Reservation, error) {
	return m.transition(id, "approve", approveFrom, func(r *Reservation) {
		r.Status = StatusApproved
		r.ApprovedBy = &by
		r.ApprovedAt = &at
	})
}

func (m *memRepo) Cancel(_ context.Context, id, by, reason string, at time.Time) (*Reservation, error) {
	return m.transition(id, "cancel", cancelFrom, func(r *Reservation) {
		r.Status = StatusCancelled
		r.CancelledBy = &by
		r.CancelledAt = &at
		r.CancellationReason = &reason
	})
}

func (m *memRepo) Reject(_ context.Context, id, by, reason string, at time.Time) (*Reservation, error) {
	return m.transition(id, "reject", rejectFrom, func(r *Reservation) {
		r.Status = StatusRejected
		r.RejectedBy = &by
		r.RejectedAt = &at
		r.RejectionReason = &reason
	})
}

func (m *memRepo) ExtendHold(_ context.Context, id string, minutes int, now time.Time) (*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.Status != StatusHold || r.HoldExpiresAt == nil || !r.HoldExpiresAt.After(now) {
		return nil, ErrNotOnHold
	}
	extended := r.HoldExpiresAt.Add(time.Duration(minutes) * time.Minute)
	r.HoldExpiresAt = &extended
	if r.HoldDurationMinutes != nil {
		total := *r.HoldDurationMinutes + minutes
		r.HoldDurationMinutes = &total
	}
	copied := *r
	return &copied, nil
}

func (m *memRepo) AttachEventTx(_ context.Context, _ pgx.Tx, id, eventID string) (*Reservation, error) {
	return m.transition(id, "convert", convertFrom, func(r *Reservation) {
		r.EventID = &eventID
	})
}

func (m *memRepo) HasBlockingReservation(_ context.Context, djID string, date time.Time, startTime, endTime string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.byID {
		if r.DJID != nil && *r.DJID == djID &&
			m.blocks(r) &&
			r.EventDate.Equal(date) &&
			r.EventStartTime < endTime && r.EventEndTime > startTime {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) RequiringAction(context.Context, *string, time.Time) ([]*Reservation, error) {
	return nil, nil
}

func (m *memRepo) Stats(context.Context, *string) (*Stats, error) {
	return &Stats{}, nil
}

func (m *memRepo) ExpireOldHolds(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, r := range m.byID {
		if r.Status == StatusHold && r.HoldExpiresAt != nil && r.HoldExpiresAt.Before(now) {
			r.Status = StatusExpired
			count++
		}
	}
	return count, nil
}

// fakeChecker reports availability based on the repo's blocking
// reservations, the same signal the production checker folds in.
type fakeChecker struct {
	repo    *memRepo
	blocked bool
}

func (f *fakeChecker) CheckAvailability(ctx context.Context, djID string, date time.Time, start, end string) (*availability.ConflictReport, error) {
	if f.blocked {
		return &availability.ConflictReport{
			Available: false,
			Conflicts: []availability.Conflict{{Severity: availability.SeverityHigh}},
		}, nil
	}
	held, err := f.repo.HasBlockingReservation(ctx, djID, date, start, end)
	if err != nil {
		return nil, err
	}
	return &availability.ConflictReport{Available: !held, BlockedByReservation: held}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(topic string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) Close() {}

type recordingEmail struct {
	sent []string
}

func (e *recordingEmail) Send(to, _, _ string) error {
	e.sent = append(e.sent, to)
	return nil
}

type fixture struct {
	repo      *memRepo
	checker   *fakeChecker
	publisher *recordingPublisher
	email     *recordingEmail
	clock     *clock.Frozen
	svc       Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	frozen := clock.NewFrozen(time.Date(2025, time.May, 20, 10, 0, 0, 0, time.UTC))
	repo := newMemRepo(frozen.Now)
	checker := &fakeChecker{repo: repo}
	publisher := &recordingPublisher{}
	email := &recordingEmail{}
	svc := NewService(repo, checker, nil, nil, nil, publisher, email, frozen, 30*time.Minute)
	return &fixture{
		repo: repo, checker: checker, publisher: publisher, email: email,
		clock: frozen, svc: svc,
	}
}

func holdRequest() CreateRequest {
	djID := "dj-7"
	email := "client@example.com"
	return CreateRequest{
		AgencyID:       "agency-1",
		DJID:           &djID,
		ClientName:     "Carlos",
		ClientEmail:    &email,
		EventDate:      time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		EventStartTime: "20:00",
		EventEndTime:   "23:00",
	}
}

func TestHoldLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := f.clock.Now()

	r, err := f.svc.CreateHold(ctx, holdRequest())
	require.NoError(t, err)
	assert.Equal(t, StatusHold, r.Status)
	require.NotNil(t, r.HoldExpiresAt)
	assert.Equal(t, start.Add(30*time.Minute), *r.HoldExpiresAt)
	require.NotNil(t, r.EventDurationHours)
	assert.InDelta(t, 3.0, *r.EventDurationHours, 1e-9)
	assert.Contains(t, f.publisher.topics, "reservation.hold_created")
	assert.Equal(t, []string{"client@example.com"}, f.email.sent)

	extended, err := f.svc.ExtendHold(ctx, r.ID, 30)
	require.NoError(t, err)
	// Additive: one hour from the original creation, not from now.
	assert.Equal(t, start.Add(60*time.Minute), *extended.HoldExpiresAt)

	confirmed, err := f.svc.Confirm(ctx, r.ID, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedBy)
	assert.Equal(t, "agent-1", *confirmed.ConfirmedBy)

	_, err = f.svc.Reject(ctx, r.ID, "agent-1", "changed our minds")
	require.Error(t, err)
	assert.ErrorContains(t, err, "cannot reject")
}

func TestCreateHoldConflicts(t *testing.T) {
	ctx := context.Background()

	t.Run("pre-check failure publishes a conflict and returns 409", func(t *testing.T) {
		f := newFixture(t)
		f.checker.blocked = true

		_, err := f.svc.CreateHold(ctx, holdRequest())
		assert.ErrorIs(t, err, ErrSlotTaken)
		assert.Contains(t, f.publisher.topics, "availability.conflict")
	})

	t.Run("hold makes the same window unavailable", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateHold(ctx, holdRequest())
		require.NoError(t, err)

		report, err := f.checker.CheckAvailability(ctx, "dj-7", holdRequest().EventDate, "20:00", "23:00")
		require.NoError(t, err)
		assert.False(t, report.Available)

		_, err = f.svc.CreateHold(ctx, holdRequest())
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("adjacent window still holds fine", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateHold(ctx, holdRequest())
		require.NoError(t, err)

		later := holdRequest()
		later.EventStartTime = "23:00"
		later.EventEndTime = "23:59"
		_, err = f.svc.CreateHold(ctx, later)
		assert.NoError(t, err)
	})

	t.Run("confirmed reservation keeps blocking the window", func(t *testing.T) {
		f := newFixture(t)

		r, err := f.svc.CreateHold(ctx, holdRequest())
		require.NoError(t, err)

		_, err = f.svc.Confirm(ctx, r.ID, "agent-1")
		require.NoError(t, err)

		// Confirming releases the hold expiry but not the window: until the
		// reservation is converted into an event with a booked slot, a second
		// hold over the same range must fail.
		report, err := f.checker.CheckAvailability(ctx, "dj-7", holdRequest().EventDate, "20:00", "23:00")
		require.NoError(t, err)
		assert.False(t, report.Available)
		assert.True(t, report.BlockedByReservation)

		_, err = f.svc.CreateHold(ctx, holdRequest())
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("hold without dj is rejected", func(t *testing.T) {
		f := newFixture(t)
		req := holdRequest()
		req.DJID = nil
		_, err := f.svc.CreateHold(ctx, req)
		assert.ErrorIs(t, err, ErrDJRequired)
	})
}

func TestExpireOldHolds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.CreateHold(ctx, holdRequest())
	require.NoError(t, err)

	// Nothing to expire while the hold is fresh.
	count, err := f.svc.ExpireOldHolds(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	f.clock.Advance(31 * time.Minute)

	count, err = f.svc.ExpireOldHolds(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Contains(t, f.publisher.topics, "reservation.holds_expired")

	expired, err := f.svc.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, expired.Status)

	// Expiring frees the window for the next caller.
	report, err := f.checker.CheckAvailability(ctx, "dj-7", holdRequest().EventDate, "20:00", "23:00")
	require.NoError(t, err)
	assert.True(t, report.Available)

	// A second sweep is a no-op.
	count, err = f.svc.ExpireOldHolds(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// An expired hold cannot be confirmed or extended.
	_, err = f.svc.Confirm(ctx, r.ID, "agent-1")
	assert.ErrorContains(t, err, "cannot confirm")
	_, err = f.svc.ExtendHold(ctx, r.ID, 30)
	assert.ErrorIs(t, err, ErrNotOnHold)
}

func TestWorkflowValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("reject requires a reason", func(t *testing.T) {
		r, err := f.svc.CreateHold(ctx, holdRequest())
		require.NoError(t, err)

		_, err = f.svc.Reject(ctx, r.ID, "agent-1", "")
		assert.ErrorIs(t, err, ErrReasonRequired)
	})

	t.Run("create without a date is rejected", func(t *testing.T) {
		req := holdRequest()
		req.EventDate = time.Time{}
		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrDateRequired)
	})

	t.Run("pending reservations skip the calendar", func(t *testing.T) {
		req := holdRequest()
		req.EventStartTime = "10:00"
		req.EventEndTime = "12:00"
		r, err := f.svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, r.Status)
		assert.Nil(t, r.HoldExpiresAt)
	})
}

func TestReservationNumberFormat(t *testing.T) {
	now := time.Date(2025, time.June, 1, 15, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^RSV-20250601-[A-Z2-9]{6}$`)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		number := newReservationNumber(now)
		assert.Regexp(t, pattern, number)
		seen[number] = true
	}
	// Collisions in 50 draws over a 32^6 space would point at a broken
	// generator.
	assert.Greater(t, len(seen), 45)
}
