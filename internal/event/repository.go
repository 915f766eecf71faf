package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	// CreateTx inserts an event inside an existing transaction. Used when a
	// reservation is converted to an event together with its booked slot.
	CreateTx(ctx context.Context, tx pgx.Tx, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter Filter) ([]*Event, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func buildInsert(e *Event) (string, []any, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Insert("public.events").
		Columns("agency_id", "name", "location", "event_date", "start_time", "end_time").
		Values(e.AgencyID, e.Name, e.Location, e.EventDate, e.StartTime, e.EndTime).
		Suffix("RETURNING id, created_at").
		ToSql()
}

func (r *pgxRepository) Create(ctx context.Context, e *Event) error {
	query, args, err := buildInsert(e)
	if err != nil {
		return fmt.Errorf("build create event query failed: %w", err)
	}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("create event failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) CreateTx(ctx context.Context, tx pgx.Tx, e *Event) error {
	query, args, err := buildInsert(e)
	if err != nil {
		return fmt.Errorf("build create event query failed: %w", err)
	}
	if err := tx.QueryRow(ctx, query, args...).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("create event failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Event, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "agency_id", "name", "location", "event_date", "start_time", "end_time", "created_at").
		From("public.events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get event query failed: %w", err)
	}

	var e Event
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&e.ID, &e.AgencyID, &e.Name, &e.Location, &e.EventDate, &e.StartTime, &e.EndTime, &e.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event failed: %w", err)
	}
	return &e, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Event, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	base := psql.Select().From("public.events")
	if filter.AgencyID != nil {
		base = base.Where(squirrel.Eq{"agency_id": *filter.AgencyID})
	}
	if filter.From != nil {
		base = base.Where(squirrel.GtOrEq{"event_date": *filter.From})
	}
	if filter.To != nil {
		base = base.Where(squirrel.LtOrEq{"event_date": *filter.To})
	}

	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count events query failed: %w", err)
	}
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events failed: %w", err)
	}

	query, args, err := base.Columns("id", "agency_id", "name", "location", "event_date", "start_time", "end_time", "created_at").
		OrderBy("event_date ASC", "start_time ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list events query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events failed: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(
			&e.ID, &e.AgencyID, &e.Name, &e.Location, &e.EventDate, &e.StartTime, &e.EndTime, &e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan event failed: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate events failed: %w", err)
	}
	return events, total, nil
}
