package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightpath-lms/brightpath/internal/shared"
)

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userSelect = `SELECT id, email, name, role, approval_status, is_active,
decided_by, decided_at, COALESCE(reject_reason, ''), created_at, updated_at FROM users`

// GetByID fetches a user by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE id = $1`, id))
}

// List returns all users, newest first.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, userSelect+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapPgError("list users", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// ListPendingApproval returns up to limit pending users created after since,
// newest first.
func (r *Repository) ListPendingApproval(ctx context.Context, since time.Time, limit int) ([]User, error) {
	rows, err := r.pool.Query(ctx, userSelect+` WHERE approval_status = $1 AND created_at >= $2
ORDER BY created_at DESC LIMIT $3`, ApprovalPending, since, limit)
	if err != nil {
		return nil, mapPgError("list pending users", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// SetApproval settles a user's approval status, recording the deciding actor
// and timestamp. reason is kept only for rejections.
func (r *Repository) SetApproval(ctx context.Context, id uuid.UUID, status ApprovalStatus, actorID uuid.UUID, at time.Time, reason string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users
SET approval_status = $2, decided_by = $3, decided_at = $4, reject_reason = NULLIF($5, ''), updated_at = NOW()
WHERE id = $1`, id, status, actorID, at, reason)
	if err != nil {
		return mapPgError("set approval", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func collectUsers(rows pgx.Rows) ([]User, error) {
	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.ApprovalStatus, &u.IsActive,
		&u.DecidedBy, &u.DecidedAt, &u.RejectReason, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, mapPgError("scan user", err)
	}
	return u, nil
}

func mapPgError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return shared.ErrDuplicate
	}
	return fmt.Errorf("users: %s: %w", op, err)
}
