package agency

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
	Create(ctx context.Context, a *Agency) error
	GetByID(ctx context.Context, id string) (*Agency, error)
	List(ctx context.Context, filter Filter) ([]*Agency, int, error)
	Update(ctx context.Context, a *Agency) error
	Deactivate(ctx context.Context, id string) error

	AddMember(ctx context.Context, agencyID, userID, role string) error
	GetMember(ctx context.Context, agencyID, userID string) (*Member, error)
	ListMembers(ctx context.Context, agencyID string) ([]*Member, error)
	RemoveMember(ctx context.Context, agencyID, userID string) error
	CountOwners(ctx context.Context, agencyID string) (int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, a *Agency) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.agencies").
		Columns("name", "contact_email", "phone", "is_active").
		Values(a.Name, a.ContactEmail, a.Phone, a.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create agency query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&a.ID, &a.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Agency, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "contact_email", "phone", "is_active", "created_at").
		From("public.agencies").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get agency query failed: %w", err)
	}

	var a Agency
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&a.ID, &a.Name, &a.ContactEmail, &a.Phone, &a.IsActive, &a.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get agency failed: %w", err)
	}
	return &a, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Agency, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "name", "contact_email", "phone", "is_active", "created_at",
		"count(*) OVER() as total_count",
	).
		From("public.agencies").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list agencies query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list agencies failed: %w", err)
	}
	defer rows.Close()

	var agencies []*Agency
	var total int

	for rows.Next() {
		var a Agency
		if err := rows.Scan(
			&a.ID, &a.Name, &a.ContactEmail, &a.Phone, &a.IsActive, &a.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan agency failed: %w", err)
		}
		agencies = append(agencies, &a)
	}

	return agencies, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, a *Agency) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.agencies").
		Set("name", a.Name).
		Set("contact_email", a.ContactEmail).
		Set("phone", a.Phone).
		Where(squirrel.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update agency query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update agency failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE public.agencies SET is_active = false WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate agency failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) AddMember(ctx context.Context, agencyID, userID, role string) error {
	const query = `
		INSERT INTO public.agency_members (agency_id, user_id, role)
		VALUES ($1, $2, $3)
	`

	if _, err := r.pool.Exec(ctx, query, agencyID, userID, role); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return ErrUserAlreadyMember
			case pgerrcode.ForeignKeyViolation:
				return ErrNotFound
			}
		}
		return fmt.Errorf("add member failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetMember(ctx context.Context, agencyID, userID string) (*Member, error) {
	const query = `
		SELECT m.user_id, u.email, u.display_name, m.role, m.added_at
		FROM public.agency_members m
		JOIN public.users u ON m.user_id = u.id
		WHERE m.agency_id = $1 AND m.user_id = $2
	`

	var m Member
	if err := r.pool.QueryRow(ctx, query, agencyID, userID).Scan(
		&m.UserID, &m.Email, &m.DisplayName, &m.Role, &m.AddedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("get member failed: %w", err)
	}
	return &m, nil
}

func (r *pgxRepository) ListMembers(ctx context.Context, agencyID string) ([]*Member, error) {
	const query = `
		SELECT m.user_id, u.email, u.display_name, m.role, m.added_at
		FROM public.agency_members m
		JOIN public.users u ON m.user_id = u.id
		WHERE m.agency_id = $1
		ORDER BY m.added_at ASC
	`

	rows, err := r.pool.Query(ctx, query, agencyID)
	if err != nil {
		return nil, fmt.Errorf("list members failed: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.Email, &m.DisplayName, &m.Role, &m.AddedAt); err != nil {
			return nil, fmt.Errorf("scan member failed: %w", err)
		}
		members = append(members, &m)
	}
	return members, nil
}

func (r *pgxRepository) RemoveMember(ctx context.Context, agencyID, userID string) error {
	const query = `DELETE FROM public.agency_members WHERE agency_id = $1 AND user_id = $2`

	ct, err := r.pool.Exec(ctx, query, agencyID, userID)
	if err != nil {
		return fmt.Errorf("remove member failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *pgxRepository) CountOwners(ctx context.Context, agencyID string) (int, error) {
	const query = `
		SELECT count(*) FROM public.agency_members
		WHERE agency_id = $1 AND role = 'owner'
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, agencyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count owners failed: %w", err)
	}
	return count, nil
}
