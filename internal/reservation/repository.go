package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, r *Reservation) error
	// CreateHold inserts a hold only if no booked/unavailable slot and no
	// unexpired hold overlaps the requested range. The check and the insert
	// are one statement, so two concurrent holds for the same window cannot
	// both succeed. Returns ErrSlotTaken when the window is already claimed.
	CreateHold(ctx context.Context, r *Reservation) error

	GetByID(ctx context.Context, id string) (*Reservation, error)
	GetByNumber(ctx context.Context, number string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)

	Confirm(ctx context.Context, id, by string, at time.Time) (*Reservation, error)
	Approve(ctx context.Context, id, by string, at time.Time) (*Reservation, error)
	Cancel(ctx context.Context, id, by, reason string, at time.Time) (*Reservation, error)
	Reject(ctx context.Context, id, by, reason string, at time.Time) (*Reservation, error)
	ExtendHold(ctx context.Context, id string, minutes int, now time.Time) (*Reservation, error)
	AttachEventTx(ctx context.Context, tx pgx.Tx, id, eventID string) (*Reservation, error)

	// HasBlockingReservation reports whether an unexpired hold, or a
	// confirmed/approved reservation not yet converted to an event, claims
	// the window. Converted reservations are covered by their booked slot.
	HasBlockingReservation(ctx context.Context, djID string, date time.Time, startTime, endTime string) (bool, error)
	RequiringAction(ctx context.Context, agencyID *string, now time.Time) ([]*Reservation, error)
	Stats(ctx context.Context, agencyID *string) (*Stats, error)
	// ExpireOldHolds moves every hold whose expiry has passed to expired.
	// Running it again immediately expires nothing.
	ExpireOldHolds(ctx context.Context, now time.Time) (int64, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const reservationColumns = `id, reservation_number, agency_id, dj_id, client_id, client_name, client_email, client_phone,
	event_type, event_date, event_start_time, event_end_time, event_duration_hours,
	status, hold_expires_at, hold_duration_minutes,
	confirmed_by, confirmed_at, approved_by, approved_at,
	cancelled_by, cancelled_at, cancellation_reason,
	rejected_by, rejected_at, rejection_reason,
	event_id, notes, created_at, updated_at`

func scanReservation(row pgx.Row) (*Reservation, error) {
	var r Reservation
	err := row.Scan(
		&r.ID, &r.ReservationNumber, &r.AgencyID, &r.DJID, &r.ClientID, &r.ClientName, &r.ClientEmail, &r.ClientPhone,
		&r.EventType, &r.EventDate, &r.EventStartTime, &r.EventEndTime, &r.EventDurationHours,
		&r.Status, &r.HoldExpiresAt, &r.HoldDurationMinutes,
		&r.ConfirmedBy, &r.ConfirmedAt, &r.ApprovedBy, &r.ApprovedAt,
		&r.CancelledBy, &r.CancelledAt, &r.CancellationReason,
		&r.RejectedBy, &r.RejectedAt, &r.RejectionReason,
		&r.EventID, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (repo *pgxRepository) Create(ctx context.Context, r *Reservation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.reservations").
		Columns("reservation_number", "agency_id", "dj_id", "client_id", "client_name", "client_email", "client_phone",
			"event_type", "event_date", "event_start_time", "event_end_time", "event_duration_hours",
			"status", "hold_expires_at", "hold_duration_minutes", "notes").
		Values(r.ReservationNumber, r.AgencyID, r.DJID, r.ClientID, r.ClientName, r.ClientEmail, r.ClientPhone,
			r.EventType, r.EventDate, r.EventStartTime, r.EventEndTime, r.EventDurationHours,
			r.Status, r.HoldExpiresAt, r.HoldDurationMinutes, r.Notes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	if err := repo.pool.QueryRow(ctx, query, args...).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return fmt.Errorf("create reservation failed: %w", err)
	}
	return nil
}

// Conditional insert: the availability check and the hold write are a single
// statement evaluated under one snapshot. The partial unique index on active
// holds backstops the rare serialization window between two simultaneous
// inserts.
const createHoldSQL = `
INSERT INTO public.reservations (
	reservation_number, agency_id, dj_id, client_id, client_name, client_email, client_phone,
	event_type, event_date, event_start_time, event_end_time, event_duration_hours,
	status, hold_expires_at, hold_duration_minutes, notes
)
SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'hold', $13, $14, $15
WHERE NOT EXISTS (
	SELECT 1 FROM public.availability_slots s
	WHERE s.dj_id = $3
	  AND s.date = $9
	  AND s.status IN ('booked', 'unavailable')
	  AND (s.all_day OR (s.start_time < $11 AND s.end_time > $10))
)
AND NOT EXISTS (
	SELECT 1 FROM public.reservations r
	WHERE r.dj_id = $3
	  AND r.event_date = $9
	  AND ((r.status = 'hold' AND r.hold_expires_at > now())
	    OR (r.status IN ('confirmed', 'approved') AND r.event_id IS NULL))
	  AND r.event_start_time < $11 AND r.event_end_time > $10
)
RETURNING id, created_at, updated_at`

func (repo *pgxRepository) CreateHold(ctx context.Context, r *Reservation) error {
	err := repo.pool.QueryRow(ctx, createHoldSQL,
		r.ReservationNumber, r.AgencyID, r.DJID, r.ClientID, r.ClientName, r.ClientEmail, r.ClientPhone,
		r.EventType, r.EventDate, r.EventStartTime, r.EventEndTime, r.EventDurationHours,
		r.HoldExpiresAt, r.HoldDurationMinutes, r.Notes,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSlotTaken
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrSlotTaken
		}
		return fmt.Errorf("create hold failed: %w", err)
	}
	r.Status = StatusHold
	return nil
}

func (repo *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return repo.getWhere(ctx, squirrel.Eq{"id": id})
}

func (repo *pgxRepository) GetByNumber(ctx context.Context, number string) (*Reservation, error) {
	return repo.getWhere(ctx, squirrel.Eq{"reservation_number": number})
}

func (repo *pgxRepository) getWhere(ctx context.Context, pred squirrel.Eq) (*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(reservationColumns).
		From("public.reservations").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	r, err := scanReservation(repo.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return r, nil
}

func (repo *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	base := psql.Select().From("public.reservations")
	if filter.AgencyID != nil {
		base = base.Where(squirrel.Eq{"agency_id": *filter.AgencyID})
	}
	if filter.DJID != nil {
		base = base.Where(squirrel.Eq{"dj_id": *filter.DJID})
	}
	if filter.ClientID != nil {
		base = base.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if len(filter.Statuses) > 0 {
		base = base.Where(squirrel.Eq{"status": filter.Statuses})
	}
	if filter.EventType != nil {
		base = base.Where(squirrel.Eq{"event_type": *filter.EventType})
	}
	if filter.From != nil {
		base = base.Where(squirrel.GtOrEq{"event_date": *filter.From})
	}
	if filter.To != nil {
		base = base.Where(squirrel.LtOrEq{"event_date": *filter.To})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"reservation_number": pattern},
			squirrel.ILike{"client_name": pattern},
			squirrel.ILike{"client_email": pattern},
		})
	}

	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count reservations query failed: %w", err)
	}
	var total int
	if err := repo.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reservations failed: %w", err)
	}

	query, args, err := base.Columns(reservationColumns).
		OrderBy("event_date DESC", "created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := repo.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	reservations, err := collectReservations(rows)
	if err != nil {
		return nil, 0, err
	}
	return reservations, total, nil
}

func (repo *pgxRepository) Confirm(ctx context.Context, id, by string, at time.Time) (*Reservation, error) {
	return repo.transition(ctx, id, "confirm", confirmFrom, map[string]any{
		"status":       StatusConfirmed,
		"confirmed_by": by,
		"confirmed_at": at,
	})
}

func (repo *pgxRepository) Approve(ctx context.Context, id, by string, at time.Time) (*Reservation, error) {
	return repo.transition(ctx, id, "approve", approveFrom, map[string]any{
		"status":      StatusApproved,
		"approved_by": by,
		"approved_at": at,
	})
}

func (repo *pgxRepository) Cancel(ctx context.Context, id, by, reason string, at time.Time) (*Reservation, error) {
	return repo.transition(ctx, id, "cancel", cancelFrom, map[string]any{
		"status":              StatusCancelled,
		"cancelled_by":        by,
		"cancelled_at":        at,
		"cancellation_reason": reason,
	})
}

func (repo *pgxRepository) Reject(ctx context.Context, id, by, reason string, at time.Time) (*Reservation, error) {
	return repo.transition(ctx, id, "reject", rejectFrom, map[string]any{
		"status":           StatusRejected,
		"rejected_by":      by,
		"rejected_at":      at,
		"rejection_reason": reason,
	})
}

// transition is a compare-and-swap on status: the UPDATE only applies when
// the current status is in from, so a concurrent sweep or workflow action
// loses cleanly instead of overwriting.
func (repo *pgxRepository) transition(ctx context.Context, id, action string, from []string, sets map[string]any) (*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	builder := psql.Update("public.reservations")
	for col, val := range sets {
		builder = builder.Set(col, val)
	}
	query, args, err := builder.
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		Suffix("RETURNING " + reservationColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s reservation query failed: %w", action, err)
	}

	r, err := scanReservation(repo.pool.QueryRow(ctx, query, args...))
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s reservation failed: %w", action, err)
	}

	current, getErr := repo.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, ErrInvalidTransition(action, current.Status)
}

// ExtendHold pushes the expiry out by the given minutes relative to the
// current expiry, not to now. Only unexpired holds can be extended.
func (repo *pgxRepository) ExtendHold(ctx context.Context, id string, minutes int, now time.Time) (*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("hold_expires_at", squirrel.Expr("hold_expires_at + make_interval(mins => ?)", minutes)).
		Set("hold_duration_minutes", squirrel.Expr("COALESCE(hold_duration_minutes, 0) + ?", minutes)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": StatusHold}).
		Where(squirrel.Gt{"hold_expires_at": now}).
		Suffix("RETURNING " + reservationColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build extend hold query failed: %w", err)
	}

	r, err := scanReservation(repo.pool.QueryRow(ctx, query, args...))
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("extend hold failed: %w", err)
	}

	if _, getErr := repo.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrNotOnHold
}

func (repo *pgxRepository) AttachEventTx(ctx context.Context, tx pgx.Tx, id, eventID string) (*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("event_id", eventID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": convertFrom}).
		Suffix("RETURNING " + reservationColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build attach event query failed: %w", err)
	}

	r, err := scanReservation(tx.QueryRow(ctx, query, args...))
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("attach event failed: %w", err)
	}

	current, getErr := repo.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, ErrInvalidTransition("convert", current.Status)
}

func (repo *pgxRepository) HasBlockingReservation(ctx context.Context, djID string, date time.Time, startTime, endTime string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("1").
		From("public.reservations").
		Where(squirrel.Eq{"dj_id": djID, "event_date": date}).
		Where(squirrel.Expr(`((status = 'hold' AND hold_expires_at > now())
			OR (status IN ('confirmed', 'approved') AND event_id IS NULL))`)).
		Where(squirrel.Lt{"event_start_time": endTime}).
		Where(squirrel.Gt{"event_end_time": startTime}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build blocking reservation query failed: %w", err)
	}

	var one int
	if err := repo.pool.QueryRow(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("blocking reservation check failed: %w", err)
	}
	return true, nil
}

// RequiringAction lists reservations an agent should look at: pending
// requests and holds expiring within 24 hours.
func (repo *pgxRepository) RequiringAction(ctx context.Context, agencyID *string, now time.Time) ([]*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	base := psql.Select(reservationColumns).
		From("public.reservations").
		Where(squirrel.Or{
			squirrel.Eq{"status": StatusPending},
			squirrel.And{
				squirrel.Eq{"status": StatusHold},
				squirrel.Gt{"hold_expires_at": now},
				squirrel.LtOrEq{"hold_expires_at": now.Add(24 * time.Hour)},
			},
		})
	if agencyID != nil {
		base = base.Where(squirrel.Eq{"agency_id": *agencyID})
	}

	query, args, err := base.OrderBy("hold_expires_at ASC NULLS LAST", "created_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build requiring action query failed: %w", err)
	}

	rows, err := repo.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requiring action failed: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func (repo *pgxRepository) Stats(ctx context.Context, agencyID *string) (*Stats, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	base := psql.Select(
		"COUNT(*) FILTER (WHERE status = 'pending')",
		"COUNT(*) FILTER (WHERE status = 'hold')",
		"COUNT(*) FILTER (WHERE status = 'confirmed')",
		"COUNT(*) FILTER (WHERE status = 'approved')",
		"COUNT(*) FILTER (WHERE status = 'cancelled')",
		"COUNT(*) FILTER (WHERE status = 'rejected')",
		"COUNT(*) FILTER (WHERE status = 'expired')",
		"COUNT(*)",
	).From("public.reservations")
	if agencyID != nil {
		base = base.Where(squirrel.Eq{"agency_id": *agencyID})
	}

	query, args, err := base.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reservation stats query failed: %w", err)
	}

	var st Stats
	if err := repo.pool.QueryRow(ctx, query, args...).Scan(
		&st.Pending, &st.Hold, &st.Confirmed, &st.Approved,
		&st.Cancelled, &st.Rejected, &st.Expired, &st.Total,
	); err != nil {
		return nil, fmt.Errorf("reservation stats failed: %w", err)
	}
	return &st, nil
}

func (repo *pgxRepository) ExpireOldHolds(ctx context.Context, now time.Time) (int64, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("status", StatusExpired).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"status": StatusHold}).
		Where(squirrel.Lt{"hold_expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build expire holds query failed: %w", err)
	}

	tag, err := repo.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("expire holds failed: %w", err)
	}
	return tag.RowsAffected(), nil
}

func collectReservations(rows pgx.Rows) ([]*Reservation, error) {
	var reservations []*Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		reservations = append(reservations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations failed: %w", err)
	}
	return reservations, nil
}
