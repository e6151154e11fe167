package courses

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightpath-lms/brightpath/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const courseSelect = `SELECT id, institution_id, instructor_id, title, description,
COALESCE(passing_score, 70), is_published, created_at, updated_at FROM courses`

// Create inserts a new course.
func (r *Repository) Create(ctx context.Context, c Course) (Course, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO courses
(id, institution_id, instructor_id, title, description, passing_score, is_published, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING created_at, updated_at`,
		c.ID, c.InstitutionID, c.InstructorID, c.Title, c.Description, c.PassingScore, c.IsPublished)
	if err := row.Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return Course{}, fmt.Errorf("courses: create: %w", err)
	}
	return c, nil
}

// GetByID fetches a course.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Course, error) {
	row := r.pool.QueryRow(ctx, courseSelect+` WHERE id = $1`, id)
	c, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Course{}, shared.ErrNotFound
		}
		return Course{}, fmt.Errorf("courses: get: %w", err)
	}
	return c, nil
}

// ListByInstitution returns courses scoped to an institution.
func (r *Repository) ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]Course, error) {
	rows, err := r.pool.Query(ctx, courseSelect+` WHERE institution_id = $1 ORDER BY updated_at DESC`, institutionID)
	if err != nil {
		return nil, fmt.Errorf("courses: list: %w", err)
	}
	defer rows.Close()

	var out []Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("courses: list scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Touch bumps the course's updated_at, feeding the student course-update
// notifications.
func (r *Repository) Touch(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE courses SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("courses: touch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (Course, error) {
	var c Course
	err := row.Scan(&c.ID, &c.InstitutionID, &c.InstructorID, &c.Title, &c.Description,
		&c.PassingScore, &c.IsPublished, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
