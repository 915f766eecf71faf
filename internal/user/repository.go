package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing user data from storage.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const userSelect = `
	SELECT
		u.id,
		u.email,
		u.password_hash,
		u.display_name,
		u.created_at,
		u.last_login_at,
		u.is_active,
		u.is_system_admin,
		COALESCE(
			(
				SELECT json_agg(json_build_object('id', a.id, 'name', a.name, 'role', m.role))
				FROM public.agency_members m
				JOIN public.agencies a ON m.agency_id = a.id
				WHERE m.user_id = u.id AND a.is_active = true
			),
			'[]'::json
		) AS agencies
	FROM public.users u
`

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, userSelect+" WHERE u.email = $1", email)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getOne(ctx, userSelect+" WHERE u.id = $1", id)
}

func (r *pgxRepository) getOne(ctx context.Context, query string, arg any) (*User, error) {
	row := r.pool.QueryRow(ctx, query, arg)

	var u User
	var agenciesJSON []byte

	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.DisplayName,
		&u.CreatedAt,
		&u.LastLoginAt,
		&u.IsActive,
		&u.IsSystemAdmin,
		&agenciesJSON,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user query failed: %w", err)
	}

	if len(agenciesJSON) > 0 {
		if err := json.Unmarshal(agenciesJSON, &u.Agencies); err != nil {
			log.Printf("warning: failed to unmarshal agencies for user %s: %v", u.ID, err)
		}
	}

	return &u, nil
}

func (r *pgxRepository) Create(ctx context.Context, u *User) error {
	const query = `
		INSERT INTO public.users (email, password_hash, display_name, is_active, is_system_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		u.Email, u.PasswordHash, u.DisplayName, u.IsActive, u.IsSystemAdmin,
	).Scan(&u.ID, &u.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	const query = `UPDATE public.users SET last_login_at = $2 WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, t); err != nil {
		return fmt.Errorf("update last login failed: %w", err)
	}
	return nil
}
