package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/beatbook/dj-agency-backend/internal/dj"
)

type Repository interface {
	Upsert(ctx context.Context, s *Slot) error
	// UpsertTx runs the same upsert inside an existing transaction.
	UpsertTx(ctx context.Context, tx pgx.Tx, s *Slot) error
	GetByID(ctx context.Context, id string) (*Slot, error)
	Update(ctx context.Context, s *Slot) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter Filter) ([]*Slot, int, error)
	FindByMonth(ctx context.Context, djID string, year, month int) ([]*Slot, error)
	FindByDateRange(ctx context.Context, djID string, from, to time.Time) ([]*Slot, error)
	// ListByDJDate returns every slot a DJ has on one date. Overlap
	// filtering happens in the service so the predicate stays testable
	// without a database.
	ListByDJDate(ctx context.Context, djID string, date time.Time) ([]*Slot, error)
	FindAvailableDJs(ctx context.Context, date time.Time, startTime, endTime string, agencyID *string) ([]*dj.DJ, error)
	Stats(ctx context.Context, djID string, year, month int) (*Stats, error)
	CleanupOld(ctx context.Context, cutoff time.Time) (int64, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const slotColumns = "id, dj_id, date, start_time, end_time, all_day, status, event_id, reason, notes, color_hint, created_at, updated_at"

func scanSlot(row pgx.Row) (*Slot, error) {
	var s Slot
	err := row.Scan(
		&s.ID, &s.DJID, &s.Date, &s.StartTime, &s.EndTime, &s.AllDay, &s.Status,
		&s.EventID, &s.Reason, &s.Notes, &s.ColorHint, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func buildUpsert(s *Slot) (string, []any, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Insert("public.availability_slots").
		Columns("dj_id", "date", "start_time", "end_time", "all_day", "status", "event_id", "reason", "notes", "color_hint").
		Values(s.DJID, s.Date, s.StartTime, s.EndTime, s.AllDay, s.Status, s.EventID, s.Reason, s.Notes, s.ColorHint).
		Suffix(`ON CONFLICT (dj_id, date, start_time) DO UPDATE SET
			end_time = EXCLUDED.end_time,
			all_day = EXCLUDED.all_day,
			status = EXCLUDED.status,
			event_id = EXCLUDED.event_id,
			reason = EXCLUDED.reason,
			notes = EXCLUDED.notes,
			color_hint = EXCLUDED.color_hint,
			updated_at = now()
		RETURNING id, created_at, updated_at`).
		ToSql()
}

func (r *pgxRepository) Upsert(ctx context.Context, s *Slot) error {
	query, args, err := buildUpsert(s)
	if err != nil {
		return fmt.Errorf("build upsert slot query failed: %w", err)
	}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return fmt.Errorf("upsert slot failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpsertTx(ctx context.Context, tx pgx.Tx, s *Slot) error {
	query, args, err := buildUpsert(s)
	if err != nil {
		return fmt.Errorf("build upsert slot query failed: %w", err)
	}
	if err := tx.QueryRow(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return fmt.Errorf("upsert slot failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Slot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(slotColumns).
		From("public.availability_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get slot query failed: %w", err)
	}

	s, err := scanSlot(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get slot failed: %w", err)
	}
	return s, nil
}

func (r *pgxRepository) Update(ctx context.Context, s *Slot) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.availability_slots").
		Set("start_time", s.StartTime).
		Set("end_time", s.EndTime).
		Set("all_day", s.AllDay).
		Set("status", s.Status).
		Set("event_id", s.EventID).
		Set("reason", s.Reason).
		Set("notes", s.Notes).
		Set("color_hint", s.ColorHint).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update slot query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update slot failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.availability_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete slot query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete slot failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Slot, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	base := psql.Select().From("public.availability_slots s")
	if filter.AgencyID != nil {
		base = base.Join("public.djs d ON d.id = s.dj_id").
			Where(squirrel.Eq{"d.agency_id": *filter.AgencyID})
	}
	if filter.DJID != nil {
		base = base.Where(squirrel.Eq{"s.dj_id": *filter.DJID})
	}
	if filter.Status != nil {
		base = base.Where(squirrel.Eq{"s.status": *filter.Status})
	}
	if filter.From != nil {
		base = base.Where(squirrel.GtOrEq{"s.date": *filter.From})
	}
	if filter.To != nil {
		base = base.Where(squirrel.LtOrEq{"s.date": *filter.To})
	}

	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count slots query failed: %w", err)
	}
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count slots failed: %w", err)
	}

	query, args, err := base.
		Columns("s.id", "s.dj_id", "s.date", "s.start_time", "s.end_time", "s.all_day", "s.status",
			"s.event_id", "s.reason", "s.notes", "s.color_hint", "s.created_at", "s.updated_at").
		OrderBy("s.date ASC", "s.start_time ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list slots query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list slots failed: %w", err)
	}
	defer rows.Close()

	slots, err := collectSlots(rows)
	if err != nil {
		return nil, 0, err
	}
	return slots, total, nil
}

func (r *pgxRepository) FindByMonth(ctx context.Context, djID string, year, month int) ([]*Slot, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return r.FindByDateRange(ctx, djID, from, to)
}

func (r *pgxRepository) FindByDateRange(ctx context.Context, djID string, from, to time.Time) ([]*Slot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"s.id", "s.dj_id", "s.date", "s.start_time", "s.end_time", "s.all_day", "s.status",
		"s.event_id", "s.reason", "s.notes", "s.color_hint", "s.created_at", "s.updated_at",
		"e.name AS event_name",
	).
		From("public.availability_slots s").
		LeftJoin("public.events e ON e.id = s.event_id").
		Where(squirrel.Eq{"s.dj_id": djID}).
		Where(squirrel.GtOrEq{"s.date": from}).
		Where(squirrel.LtOrEq{"s.date": to}).
		OrderBy("s.date ASC", "s.start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build slot range query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find slots by range failed: %w", err)
	}
	defer rows.Close()

	var slots []*Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(
			&s.ID, &s.DJID, &s.Date, &s.StartTime, &s.EndTime, &s.AllDay, &s.Status,
			&s.EventID, &s.Reason, &s.Notes, &s.ColorHint, &s.CreatedAt, &s.UpdatedAt,
			&s.EventName,
		); err != nil {
			return nil, fmt.Errorf("scan slot failed: %w", err)
		}
		slots = append(slots, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots failed: %w", err)
	}
	return slots, nil
}

func (r *pgxRepository) ListByDJDate(ctx context.Context, djID string, date time.Time) ([]*Slot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(slotColumns).
		From("public.availability_slots").
		Where(squirrel.Eq{"dj_id": djID, "date": date}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build slots by date query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find slots by date failed: %w", err)
	}
	defer rows.Close()

	return collectSlots(rows)
}

// FindAvailableDJs anti-joins active DJs against both conflicting slots and
// blocking reservations so the result reflects what a hold attempt would
// actually see.
func (r *pgxRepository) FindAvailableDJs(ctx context.Context, date time.Time, startTime, endTime string, agencyID *string) ([]*dj.DJ, error) {
	startTime, endTime = normalizeRange(startTime, endTime)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	base := psql.Select(
		"d.id", "d.agency_id", "d.name", "d.specialty", "d.rating", "d.hourly_rate",
		"d.bio", "d.is_active", "d.photo_path", "d.thumbnail_path", "d.created_at", "d.updated_at",
	).
		From("public.djs d").
		Where(squirrel.Eq{"d.is_active": true}).
		Where(squirrel.Expr(`NOT EXISTS (
			SELECT 1 FROM public.availability_slots s
			WHERE s.dj_id = d.id
			  AND s.date = ?
			  AND s.status IN ('booked', 'unavailable')
			  AND (s.all_day OR (s.start_time < ? AND s.end_time > ?))
		)`, date, endTime, startTime)).
		Where(squirrel.Expr(`NOT EXISTS (
			SELECT 1 FROM public.reservations r
			WHERE r.dj_id = d.id
			  AND r.event_date = ?
			  AND ((r.status = 'hold' AND r.hold_expires_at > now())
			    OR (r.status IN ('confirmed', 'approved') AND r.event_id IS NULL))
			  AND r.event_start_time < ? AND r.event_end_time > ?
		)`, date, endTime, startTime))
	if agencyID != nil {
		base = base.Where(squirrel.Eq{"d.agency_id": *agencyID})
	}

	query, args, err := base.
		OrderBy("d.rating DESC NULLS LAST", "d.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build available djs query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find available djs failed: %w", err)
	}
	defer rows.Close()

	var djs []*dj.DJ
	for rows.Next() {
		var d dj.DJ
		if err := rows.Scan(
			&d.ID, &d.AgencyID, &d.Name, &d.Specialty, &d.Rating, &d.HourlyRate,
			&d.Bio, &d.IsActive, &d.PhotoPath, &d.ThumbnailPath, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan available dj failed: %w", err)
		}
		djs = append(djs, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate available djs failed: %w", err)
	}
	return djs, nil
}

func (r *pgxRepository) Stats(ctx context.Context, djID string, year, month int) (*Stats, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"COUNT(*) FILTER (WHERE status = 'available')",
		"COUNT(*) FILTER (WHERE status = 'booked')",
		"COUNT(*) FILTER (WHERE status = 'unavailable')",
		"COUNT(*)",
	).
		From("public.availability_slots").
		Where(squirrel.Eq{"dj_id": djID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build slot stats query failed: %w", err)
	}

	var st Stats
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&st.Available, &st.Booked, &st.Unavailable, &st.Total,
	); err != nil {
		return nil, fmt.Errorf("slot stats failed: %w", err)
	}
	return &st, nil
}

func (r *pgxRepository) CleanupOld(ctx context.Context, cutoff time.Time) (int64, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.availability_slots").
		Where(squirrel.Lt{"date": cutoff}).
		Where(squirrel.NotEq{"status": StatusBooked}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build cleanup slots query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("cleanup slots failed: %w", err)
	}
	return tag.RowsAffected(), nil
}

func collectSlots(rows pgx.Rows) ([]*Slot, error) {
	var slots []*Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot failed: %w", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots failed: %w", err)
	}
	return slots, nil
}
