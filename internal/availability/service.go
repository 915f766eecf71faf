package availability

import (
	"context"
	"time"

	"github.com/beatbook/dj-agency-backend/internal/dj"
	"github.com/beatbook/dj-agency-backend/internal/pkg/clock"
)

// HoldLookup answers whether a DJ already has an unexpired hold overlapping
// a time range. Implemented by the reservation repository.
type HoldLookup interface {
	// HasBlockingReservation reports whether an unexpired hold or an
	// unconverted confirmed/approved reservation claims the window.
	HasBlockingReservation(ctx context.Context, djID string, date time.Time, startTime, endTime string) (bool, error)
}

// DJGetter is the slice of the DJ repository the suggestion ranker needs.
type DJGetter interface {
	GetByID(ctx context.Context, id string) (*dj.DJ, error)
}

type UpsertRequest struct {
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
}

type Service interface {
	Upsert(ctx context.Context, req UpsertRequest) (*Slot, error)
	GetByID(ctx context.Context, id string) (*Slot, error)
	Update(ctx context.Context, id string, req UpsertRequest) (*Slot, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter Filter) ([]*Slot, int, error)
	FindByMonth(ctx context.Context, djID string, year, month int) ([]*Slot, error)
	FindByDateRange(ctx context.Context, djID string, from, to time.Time) ([]*Slot, error)

	MarkUnavailable(ctx context.Context, djID string, date time.Time, reason, notes *string) (*Slot, error)
	MarkAvailable(ctx context.Context, djID string, date time.Time) (*Slot, error)
	ReserveForEvent(ctx context.Context, djID string, date time.Time, eventID, startTime, endTime string) (*Slot, error)
	BlockDateRange(ctx context.Context, djID string, from, to time.Time, reason *string) (int, error)

	CheckAvailability(ctx context.Context, djID string, date time.Time, startTime, endTime string) (*ConflictReport, error)
	DetectConflicts(ctx context.Context, djID string, date time.Time, startTime, endTime string, excludeID *string) ([]Conflict, error)
	FindAvailableDJs(ctx context.Context, date time.Time, startTime, endTime string, agencyID *string) ([]*dj.DJ, error)
	FindSmartSuggestions(ctx context.Context, originalDJID string, date time.Time, startTime, endTime string, agencyID *string) ([]Suggestion, error)

	Stats(ctx context.Context, djID string, year, month int) (*Stats, error)
	CleanupOld(ctx context.Context, daysToKeep int) (int64, error)
}

type service struct {
	repo          Repository
	djs           DJGetter
	holds         HoldLookup
	clock         clock.Clock
	retentionDays int
}

func NewService(repo Repository, djs DJGetter, holds HoldLookup, clk clock.Clock, retentionDays int) Service {
	if retentionDays < 1 {
		retentionDays = 90
	}
	return &service{repo: repo, djs: djs, holds: holds, clock: clk, retentionDays: retentionDays}
}

func (s *service) Upsert(ctx context.Context, req UpsertRequest) (*Slot, error) {
	slot, err := slotFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Slot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id string, req UpsertRequest) (*Slot, error) {
	slot, err := slotFromRequest(req)
	if err != nil {
		return nil, err
	}
	slot.ID = id
	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Slot, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) FindByMonth(ctx context.Context, djID string, year, month int) ([]*Slot, error) {
	return s.repo.FindByMonth(ctx, djID, year, month)
}

func (s *service) FindByDateRange(ctx context.Context, djID string, from, to time.Time) ([]*Slot, error) {
	return s.repo.FindByDateRange(ctx, djID, from, to)
}

func (s *service) MarkUnavailable(ctx context.Context, djID string, date time.Time, reason, notes *string) (*Slot, error) {
	color := ColorUnavailable
	return s.Upsert(ctx, UpsertRequest{
		DJID:      djID,
		Date:      date,
		AllDay:    true,
		Status:    StatusUnavailable,
		Reason:    reason,
		Notes:     notes,
		ColorHint: &color,
	})
}

func (s *service) MarkAvailable(ctx context.Context, djID string, date time.Time) (*Slot, error) {
	color := ColorAvailable
	return s.Upsert(ctx, UpsertRequest{
		DJID:      djID,
		Date:      date,
		AllDay:    true,
		Status:    StatusAvailable,
		ColorHint: &color,
	})
}

func (s *service) ReserveForEvent(ctx context.Context, djID string, date time.Time, eventID, startTime, endTime string) (*Slot, error) {
	color := ColorBooked
	return s.Upsert(ctx, UpsertRequest{
		DJID:      djID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Status:    StatusBooked,
		EventID:   &eventID,
		ColorHint: &color,
	})
}

// BlockDateRange marks every day in [from, to] unavailable. Returns the
// number of days written.
func (s *service) BlockDateRange(ctx context.Context, djID string, from, to time.Time, reason *string) (int, error) {
	if to.Before(from) {
		return 0, ErrBadDateRange
	}

	count := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if _, err := s.MarkUnavailable(ctx, djID, day, reason, nil); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// CheckAvailability reports whether a DJ is bookable for the given range. A
// missing record means available. Only booked and unavailable slots count
// as conflicts here; an unexpired hold or an unconverted confirmed booking
// also blocks the range so that a fresh hold immediately makes the window
// read as taken.
func (s *service) CheckAvailability(ctx context.Context, djID string, date time.Time, startTime, endTime string) (*ConflictReport, error) {
	if djID == "" {
		return nil, ErrDJRequired
	}
	startTime, endTime = normalizeRange(startTime, endTime)

	slots, err := s.repo.ListByDJDate(ctx, djID, date)
	if err != nil {
		return nil, err
	}

	var conflicts []Conflict
	for _, slot := range slots {
		if slot.Status != StatusBooked && slot.Status != StatusUnavailable {
			continue
		}
		if slot.AllDay || Overlaps(slot.StartTime, slot.EndTime, startTime, endTime) {
			conflicts = append(conflicts, Conflict{Slot: *slot, Severity: SeverityFor(slot.Status)})
		}
	}

	blocked, err := s.holds.HasBlockingReservation(ctx, djID, date, startTime, endTime)
	if err != nil {
		return nil, err
	}

	return &ConflictReport{
		Available:            len(conflicts) == 0 && !blocked,
		BlockedByReservation: blocked,
		Conflicts:            conflicts,
	}, nil
}

// DetectConflicts returns every overlapping slot regardless of status,
// tagged with a severity. Whole-day slots always match. excludeID skips one
// slot, used when editing a slot in place.
func (s *service) DetectConflicts(ctx context.Context, djID string, date time.Time, startTime, endTime string, excludeID *string) ([]Conflict, error) {
	if djID == "" {
		return nil, ErrDJRequired
	}
	startTime, endTime = normalizeRange(startTime, endTime)

	slots, err := s.repo.ListByDJDate(ctx, djID, date)
	if err != nil {
		return nil, err
	}

	var conflicts []Conflict
	for _, slot := range slots {
		if excludeID != nil && slot.ID == *excludeID {
			continue
		}
		if slot.AllDay || Overlaps(slot.StartTime, slot.EndTime, startTime, endTime) {
			conflicts = append(conflicts, Conflict{Slot: *slot, Severity: SeverityFor(slot.Status)})
		}
	}
	return conflicts, nil
}

func (s *service) FindAvailableDJs(ctx context.Context, date time.Time, startTime, endTime string, agencyID *string) ([]*dj.DJ, error) {
	return s.repo.FindAvailableDJs(ctx, date, startTime, endTime, agencyID)
}

// FindSmartSuggestions ranks alternate DJs free in the requested window
// when the originally requested DJ is not available.
func (s *service) FindSmartSuggestions(ctx context.Context, originalDJID string, date time.Time, startTime, endTime string, agencyID *string) ([]Suggestion, error) {
	original, err := s.djs.GetByID(ctx, originalDJID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.repo.FindAvailableDJs(ctx, date, startTime, endTime, agencyID)
	if err != nil {
		return nil, err
	}

	return RankSuggestions(original, candidates), nil
}

func (s *service) Stats(ctx context.Context, djID string, year, month int) (*Stats, error) {
	return s.repo.Stats(ctx, djID, year, month)
}

// CleanupOld removes slots older than the retention horizon. Booked slots
// are never deleted regardless of age.
func (s *service) CleanupOld(ctx context.Context, daysToKeep int) (int64, error) {
	if daysToKeep < 1 {
		daysToKeep = s.retentionDays
	}
	cutoff := s.clock.Now().AddDate(0, 0, -daysToKeep)
	return s.repo.CleanupOld(ctx, cutoff)
}

func slotFromRequest(req UpsertRequest) (*Slot, error) {
	if req.DJID == "" {
		return nil, ErrDJRequired
	}
	if req.Date.IsZero() {
		return nil, ErrDateRequired
	}

	start, end := normalizeRange(req.StartTime, req.EndTime)
	if start == DayStart && end == DayEnd {
		req.AllDay = true
	}
	if !req.AllDay && end <= start {
		return nil, ErrBadTimeRange
	}

	status := req.Status
	if status == "" {
		status = StatusAvailable
	}
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	return &Slot{
		DJID:      req.DJID,
		Date:      req.Date,
		StartTime: start,
		EndTime:   end,
		AllDay:    req.AllDay,
		Status:    status,
		EventID:   req.EventID,
		Reason:    req.Reason,
		Notes:     req.Notes,
		ColorHint: req.ColorHint,
	}, nil
}
