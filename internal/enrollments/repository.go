package enrollments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
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

// Create inserts an enrollment. A second enrollment for the same
// (user, course) pair maps to shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, e Enrollment) (Enrollment, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO enrollments (id, user_id, course_id, created_at)
VALUES ($1, $2, $3, NOW()) RETURNING created_at`, e.ID, e.UserID, e.CourseID)
	if err := row.Scan(&e.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Enrollment{}, shared.ErrDuplicate
		}
		return Enrollment{}, fmt.Errorf("enrollments: create: %w", err)
	}
	return e, nil
}

// ListByUser returns the user's enrollments, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Enrollment, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, user_id, course_id, created_at, last_accessed
FROM enrollments WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("enrollments: list by user: %w", err)
	}
	defer rows.Close()

	var out []Enrollment
	for rows.Next() {
		var e Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.CreatedAt, &e.LastAccessed); err != nil {
			return nil, fmt.Errorf("enrollments: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListRecent returns up to limit enrollments created after since with
// student and course details, newest first. Feeds the moderation
// notifications.
func (r *Repository) ListRecent(ctx context.Context, since time.Time, limit int) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, `SELECT e.id, e.user_id, e.course_id, e.created_at, e.last_accessed, u.name, c.title
FROM enrollments e
JOIN users u ON u.id = e.user_id
JOIN courses c ON c.id = e.course_id
WHERE e.created_at >= $1
ORDER BY e.created_at DESC LIMIT $2`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("enrollments: list recent: %w", err)
	}
	defer rows.Close()

	var out []Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.UserID, &d.CourseID, &d.CreatedAt, &d.LastAccessed, &d.StudentName, &d.CourseTitle); err != nil {
			return nil, fmt.Errorf("enrollments: scan detail: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// TouchAccess updates last_accessed for an enrollment.
func (r *Repository) TouchAccess(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE enrollments SET last_accessed = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("enrollments: touch access: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
