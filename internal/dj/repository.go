package dj

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, d *DJ) error
	GetByID(ctx context.Context, id string) (*DJ, error)
	List(ctx context.Context, filter Filter) ([]*DJ, int, error)
	Update(ctx context.Context, d *DJ) error
	Deactivate(ctx context.Context, id string) error
	SetPhoto(ctx context.Context, id string, photoPath, thumbnailPath string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const djColumns = "id, agency_id, name, specialty, rating, hourly_rate, bio, is_active, photo_path, thumbnail_path, created_at, updated_at"

func scanDJ(row pgx.Row) (*DJ, error) {
	var d DJ
	err := row.Scan(
		&d.ID, &d.AgencyID, &d.Name, &d.Specialty, &d.Rating, &d.HourlyRate,
		&d.Bio, &d.IsActive, &d.PhotoPath, &d.ThumbnailPath, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *pgxRepository) Create(ctx context.Context, d *DJ) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.djs").
		Columns("agency_id", "name", "specialty", "rating", "hourly_rate", "bio", "is_active").
		Values(d.AgencyID, d.Name, d.Specialty, d.Rating, d.HourlyRate, d.Bio, d.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create dj query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrBadAgency
		}
		return fmt.Errorf("create dj failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*DJ, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(djColumns).
		From("public.djs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get dj query failed: %w", err)
	}

	d, err := scanDJ(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get dj failed: %w", err)
	}
	return d, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*DJ, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	base := psql.Select().From("public.djs")
	if filter.AgencyID != nil {
		base = base.Where(squirrel.Eq{"agency_id": *filter.AgencyID})
	}
	if filter.Specialty != nil {
		base = base.Where(squirrel.Eq{"specialty": *filter.Specialty})
	}
	if filter.ActiveOnly {
		base = base.Where(squirrel.Eq{"is_active": true})
	}
	if filter.Search != "" {
		base = base.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}

	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count djs query failed: %w", err)
	}
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count djs failed: %w", err)
	}

	query, args, err := base.Columns(djColumns).
		OrderBy("name ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list djs query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list djs failed: %w", err)
	}
	defer rows.Close()

	var djs []*DJ
	for rows.Next() {
		d, err := scanDJ(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan dj failed: %w", err)
		}
		djs = append(djs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate djs failed: %w", err)
	}
	return djs, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, d *DJ) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.djs").
		Set("name", d.Name).
		Set("specialty", d.Specialty).
		Set("rating", d.Rating).
		Set("hourly_rate", d.HourlyRate).
		Set("bio", d.Bio).
		Set("is_active", d.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": d.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update dj query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update dj failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Deactivate(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.djs").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate dj query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivate dj failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SetPhoto(ctx context.Context, id string, photoPath, thumbnailPath string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.djs").
		Set("photo_path", photoPath).
		Set("thumbnail_path", thumbnailPath).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set dj photo query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set dj photo failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
