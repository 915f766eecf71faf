package availability

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatbook/dj-agency-backend/internal/dj"
	"github.com/beatbook/dj-agency-backend/internal/pkg/clock"
)

type fakeRepo struct {
	Repository
	slots   []*Slot
	deleted []time.Time
}

func (f *fakeRepo) ListByDJDate(_ context.Context, djID string, date time.Time) ([]*Slot, error) {
	var out []*Slot
	for _, s := range f.slots {
		if s.DJID == djID && s.Date.Equal(date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpsertTx(context.Context, pgx.Tx, *Slot) error { return nil }

func (f *fakeRepo) CleanupOld(_ context.Context, cutoff time.Time) (int64, error) {
	f.deleted = append(f.deleted, cutoff)
	var count int64
	for _, s := range f.slots {
		if s.Date.Before(cutoff) && s.Status != StatusBooked {
			count++
		}
	}
	return count, nil
}

type fakeHolds struct {
	held bool
}

func (f *fakeHolds) HasBlockingReservation(context.Context, string, time.Time, string, string) (bool, error) {
	return f.held, nil
}

type fakeDJs struct{}

func (fakeDJs) GetByID(_ context.Context, id string) (*dj.DJ, error) {
	return &dj.DJ{ID: id, Name: "DJ " + id}, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func slot(djID string, date time.Time, start, end, status string) *Slot {
	return &Slot{
		ID: djID + date.Format("20060102") + start, DJID: djID, Date: date,
		StartTime: start, EndTime: end, Status: status,
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		exStart, exEnd string
		qStart, qEnd   string
		want           bool
	}{
		{"identical ranges", "10:00", "12:00", "10:00", "12:00", true},
		{"existing covers query start", "09:00", "11:00", "10:00", "12:00", true},
		{"existing covers query end", "11:00", "13:00", "10:00", "12:00", true},
		{"existing inside query", "10:30", "11:30", "10:00", "12:00", true},
		{"query inside existing", "09:00", "13:00", "10:00", "12:00", true},
		{"existing starts at query end", "12:00", "14:00", "10:00", "12:00", false},
		{"existing ends at query start", "08:00", "10:00", "10:00", "12:00", false},
		{"disjoint before", "06:00", "08:00", "10:00", "12:00", false},
		{"disjoint after", "14:00", "16:00", "10:00", "12:00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(tc.exStart, tc.exEnd, tc.qStart, tc.qEnd)
			assert.Equal(t, tc.want, got)
			// The relation is symmetric in which range is "existing".
			assert.Equal(t, tc.want, Overlaps(tc.qStart, tc.qEnd, tc.exStart, tc.exEnd))
		})
	}
}

func TestSeverityFor(t *testing.T) {
	assert.Equal(t, SeverityHigh, SeverityFor(StatusBooked))
	assert.Equal(t, SeverityMedium, SeverityFor(StatusUnavailable))
	assert.Equal(t, SeverityLow, SeverityFor(StatusAvailable))
}

func TestCheckAvailability(t *testing.T) {
	date := day(2025, time.June, 1)

	t.Run("no records means available", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, fakeDJs{}, &fakeHolds{}, clock.Real(), 90)

		report, err := svc.CheckAvailability(context.Background(), "dj-1", date, "20:00", "23:00")
		require.NoError(t, err)
		assert.True(t, report.Available)
		assert.Empty(t, report.Conflicts)
	})

	t.Run("booked overlap blocks with high severity", func(t *testing.T) {
		repo := &fakeRepo{slots: []*Slot{slot("dj-1", date, "21:00", "23:30", StatusBooked)}}
		svc := NewService(repo, fakeDJs{}, &fakeHolds{}, clock.Real(), 90)

		report, err := svc.CheckAvailability(context.Background(), "dj-1", date, "20:00", "23:00")
		require.NoError(t, err)
		assert.False(t, report.Available)
		require.Len(t, report.Conflicts, 1)
		assert.Equal(t, SeverityHigh, report.Conflicts[0].Severity)
	})

	t.Run("available slots do not block", func(t *testing.T) {
		repo := &fakeRepo{slots: []*Slot{slot("dj-1", date, "20:00", "23:00", StatusAvailable)}}
		svc := NewService(repo, fakeDJs{}, &fakeHolds{}, clock.Real(), 90)

		report, err := svc.CheckAvailability(context.Background(), "dj-1", date, "20:00", "23:00")
		require.NoError(t, err)
		assert.True(t, report.Available)
	})

	t.Run("adjacent ranges do not conflict", func(t *testing.T) {
		repo := &fakeRepo{slots: []*Slot{slot("dj-1", date, "12:00", "14:00", StatusBooked)}}
		svc := NewService(repo, fakeDJs{}, &fakeHolds{}, clock.Real(), 90)

		report, err := svc.CheckAvailability(context.Background(), "dj-1", date, "10:00", "12:00")
		require.NoError(t, err)
		assert.True(t, report.Available)
	})

	t.Run("whole day block conflicts with any range", func(t *testing.T) {
		blocked := slot("dj-1", date, DayStart, DayEnd, StatusUnavailable)
		blocked.AllDay = true
		svc := NewService(&fakeRepo{slots: []*Slot{blocked}}, fakeDJs{}, &fakeHolds{}, clock.Real(), 90)

		report, err := svc.CheckAvailability(context.Background(), "dj-1", date, "20:00", "21:00")
		require.NoError(t, err)
		assert.False(t, report.Available)
		assert.Equal(t, SeverityMedium, report.Conflicts[0].Severity)
	})

	t.Run("blocking reservation blocks even without a slot", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, fakeDJs{}, &fakeHolds{held: true}, clock.Real(), 90)

		report, err := svc.CheckAvailability(context.Background(), "dj-1", date, "20:00", "23:00")
		require.NoError(t, err)
		assert.False(t, report.Available)
		assert.True(t, report.BlockedByReservation)
		assert.Empty(t, report.Conflicts)
	})

	t.Run("missing dj id is rejected", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, fakeDJs{}, &fakeHolds{}, clock.Real(), 90)
		_, err := svc.CheckAvailability(context.Background(), "", date, "20:00", "23:00")
		assert.ErrorIs(t, err, ErrDJRequired)
	})
}

func TestDetectConflicts(t *testing.T) {
	date := day(2025, time.June, 1)

	t.Run("includes available slots with low severity", func(t *testing.T) {
		repo := &fakeRepo{slots: []*Slot{slot("dj-1", date, "20:00", "23:00", StatusAvailable)}}
		svc := NewService(repo, fakeDJs{}, &fakeHolds{}, clock.Real(), 90)

		conflicts, err := svc.DetectConflicts(context.Background(), "dj-1", date, "21:00", "22:00", nil)
		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, SeverityLow, conflicts[0].Severity)
	})

	t.Run("all day slot conflicts regardless of its clock times", func(t *testing.T) {
		// The stored times do not overlap the query range; the all-day flag
		// alone must make it a conflict.
		allDay := slot("dj-1", date, "08:00", "09:00", StatusUnavailable)
		allDay.AllDay = true
		svc := NewService(&fakeRepo{slots: []*Slot{allDay}}, fakeDJs{}, &fakeHolds{}, clock.Real(), 90)

		conflicts, err := svc.DetectConflicts(context.Background(), "dj-1", date, "20:00", "23:00", nil)
		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, SeverityMedium, conflicts[0].Severity)
	})

	t.Run("exclude id skips the slot being edited", func(t *testing.T) {
		existing := slot("dj-1", date, "20:00", "23:00", StatusBooked)
		svc := NewService(&fakeRepo{slots: []*Slot{existing}}, fakeDJs{}, &fakeHolds{}, clock.Real(), 90)

		conflicts, err := svc.DetectConflicts(context.Background(), "dj-1", date, "20:00", "23:00", &existing.ID)
		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})
}

func TestCleanupOld(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	frozen := clock.NewFrozen(now)

	oldAvailable := slot("dj-1", now.AddDate(0, 0, -120), "10:00", "12:00", StatusAvailable)
	oldBooked := slot("dj-1", now.AddDate(0, 0, -120), "14:00", "16:00", StatusBooked)
	repo := &fakeRepo{slots: []*Slot{oldAvailable, oldBooked}}

	svc := NewService(repo, fakeDJs{}, &fakeHolds{}, frozen, 90)

	removed, err := svc.CleanupOld(context.Background(), 90)
	require.NoError(t, err)
	// The 120-day-old available slot goes; the booked one is retained.
	assert.Equal(t, int64(1), removed)

	require.Len(t, repo.deleted, 1)
	assert.Equal(t, now.AddDate(0, 0, -90), repo.deleted[0])
}

func TestSlotFromRequest(t *testing.T) {
	date := day(2025, time.June, 1)

	t.Run("defaults to a whole day available slot", func(t *testing.T) {
		s, err := slotFromRequest(UpsertRequest{DJID: "dj-1", Date: date})
		require.NoError(t, err)
		assert.True(t, s.AllDay)
		assert.Equal(t, DayStart, s.StartTime)
		assert.Equal(t, DayEnd, s.EndTime)
		assert.Equal(t, StatusAvailable, s.Status)
	})

	t.Run("rejects inverted ranges", func(t *testing.T) {
		_, err := slotFromRequest(UpsertRequest{DJID: "dj-1", Date: date, StartTime: "18:00", EndTime: "10:00"})
		assert.ErrorIs(t, err, ErrBadTimeRange)
	})

	t.Run("rejects missing dj and date", func(t *testing.T) {
		_, err := slotFromRequest(UpsertRequest{Date: date})
		assert.ErrorIs(t, err, ErrDJRequired)

		_, err = slotFromRequest(UpsertRequest{DJID: "dj-1"})
		assert.ErrorIs(t, err, ErrDateRequired)
	})

	t.Run("rejects unknown statuses", func(t *testing.T) {
		_, err := slotFromRequest(UpsertRequest{DJID: "dj-1", Date: date, Status: "tentative"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}
