package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightpath-lms/brightpath/internal/courses"
)

// Repository implements Source against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// PendingApprovals returns recent pending-approval users, newest first.
func (r *Repository) PendingApprovals(ctx context.Context, since time.Time, limit int) ([]PendingApproval, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, role, created_at FROM users
WHERE approval_status = 'pending' AND created_at >= $1
ORDER BY created_at DESC LIMIT $2`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("notifications: pending approvals: %w", err)
	}
	defer rows.Close()

	var out []PendingApproval
	for rows.Next() {
		var p PendingApproval
		if err := rows.Scan(&p.UserID, &p.Name, &p.Role, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("notifications: scan pending approval: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RecentEnrollments returns recent enrollments with display names, newest
// first.
func (r *Repository) RecentEnrollments(ctx context.Context, since time.Time, limit int) ([]RecentEnrollment, error) {
	rows, err := r.pool.Query(ctx, `SELECT e.id, u.name, c.title, e.created_at
FROM enrollments e
JOIN users u ON u.id = e.user_id
JOIN courses c ON c.id = e.course_id
WHERE e.created_at >= $1
ORDER BY e.created_at DESC LIMIT $2`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("notifications: recent enrollments: %w", err)
	}
	defer rows.Close()

	var out []RecentEnrollment
	for rows.Next() {
		var e RecentEnrollment
		if err := rows.Scan(&e.EnrollmentID, &e.StudentName, &e.CourseTitle, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("notifications: scan recent enrollment: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CourseUpdates returns courses under the student's enrollments updated
// after since.
func (r *Repository) CourseUpdates(ctx context.Context, studentID uuid.UUID, since time.Time) ([]CourseUpdate, error) {
	rows, err := r.pool.Query(ctx, `SELECT c.id, c.title, c.updated_at
FROM enrollments e
JOIN courses c ON c.id = e.course_id
WHERE e.user_id = $1 AND c.updated_at >= $2
ORDER BY c.updated_at DESC`, studentID, since)
	if err != nil {
		return nil, fmt.Errorf("notifications: course updates: %w", err)
	}
	defer rows.Close()

	var out []CourseUpdate
	for rows.Next() {
		var u CourseUpdate
		if err := rows.Scan(&u.CourseID, &u.Title, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("notifications: scan course update: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// RecentQuizResults returns the student's completed attempts submitted after
// since, carrying the per-quiz passing threshold with the platform default
// as fallback.
func (r *Repository) RecentQuizResults(ctx context.Context, studentID uuid.UUID, since time.Time, limit int) ([]QuizResult, error) {
	rows, err := r.pool.Query(ctx, `SELECT a.id, q.title, a.percentage, COALESCE(q.passing_score, $4), a.submitted_at
FROM quiz_attempts a
JOIN quizzes q ON q.id = a.quiz_id
WHERE a.user_id = $1 AND a.status = 'completed' AND a.submitted_at >= $2
ORDER BY a.submitted_at DESC LIMIT $3`, studentID, since, limit, courses.DefaultPassingScore)
	if err != nil {
		return nil, fmt.Errorf("notifications: recent quiz results: %w", err)
	}
	defer rows.Close()

	var out []QuizResult
	for rows.Next() {
		var res QuizResult
		if err := rows.Scan(&res.AttemptID, &res.QuizTitle, &res.Percentage, &res.PassingScore, &res.SubmittedAt); err != nil {
			return nil, fmt.Errorf("notifications: scan quiz result: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
