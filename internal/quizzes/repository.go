package quizzes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightpath-lms/brightpath/internal/courses"
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

// CreateQuiz inserts a quiz.
func (r *Repository) CreateQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO quizzes (id, course_id, title, passing_score, created_at)
VALUES ($1, $2, $3, $4, NOW()) RETURNING created_at`, q.ID, q.CourseID, q.Title, q.PassingScore)
	if err := row.Scan(&q.CreatedAt); err != nil {
		return Quiz{}, fmt.Errorf("quizzes: create: %w", err)
	}
	return q, nil
}

// GetQuiz fetches a quiz by id.
func (r *Repository) GetQuiz(ctx context.Context, id uuid.UUID) (Quiz, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, course_id, title, passing_score, created_at FROM quizzes WHERE id = $1`, id)
	var q Quiz
	if err := row.Scan(&q.ID, &q.CourseID, &q.Title, &q.PassingScore, &q.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quiz{}, shared.ErrNotFound
		}
		return Quiz{}, fmt.Errorf("quizzes: get: %w", err)
	}
	return q, nil
}

// CreateAttempt inserts a completed attempt.
func (r *Repository) CreateAttempt(ctx context.Context, a Attempt) (Attempt, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO quiz_attempts (id, quiz_id, user_id, percentage, status, submitted_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING created_at`,
		a.ID, a.QuizID, a.UserID, a.Percentage, a.Status, a.SubmittedAt)
	if err := row.Scan(&a.CreatedAt); err != nil {
		return Attempt{}, fmt.Errorf("quizzes: create attempt: %w", err)
	}
	return a, nil
}

// ListRecentCompleted returns up to limit completed attempts submitted after
// since for the user, newest first. The effective passing score falls back
// to the platform default when the quiz has none configured.
func (r *Repository) ListRecentCompleted(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]AttemptResult, error) {
	rows, err := r.pool.Query(ctx, `SELECT a.id, a.quiz_id, a.user_id, a.percentage, a.status, a.submitted_at, a.created_at,
q.title, COALESCE(q.passing_score, $4)
FROM quiz_attempts a
JOIN quizzes q ON q.id = a.quiz_id
WHERE a.user_id = $1 AND a.status = 'completed' AND a.submitted_at >= $2
ORDER BY a.submitted_at DESC LIMIT $3`, userID, since, limit, courses.DefaultPassingScore)
	if err != nil {
		return nil, fmt.Errorf("quizzes: list recent completed: %w", err)
	}
	defer rows.Close()

	var out []AttemptResult
	for rows.Next() {
		var res AttemptResult
		if err := rows.Scan(&res.ID, &res.QuizID, &res.UserID, &res.Percentage, &res.Status, &res.SubmittedAt, &res.CreatedAt,
			&res.QuizTitle, &res.PassingScore); err != nil {
			return nil, fmt.Errorf("quizzes: scan result: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
