package quizzes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for quizzes.
type RepositoryPort interface {
	CreateQuiz(ctx context.Context, q Quiz) (Quiz, error)
	GetQuiz(ctx context.Context, id uuid.UUID) (Quiz, error)
	CreateAttempt(ctx context.Context, a Attempt) (Attempt, error)
	ListRecentCompleted(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]AttemptResult, error)
}

// Service handles quiz business logic.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateQuiz registers a quiz under a course. passingScore nil means the
// course/platform default applies.
func (s *Service) CreateQuiz(ctx context.Context, courseID uuid.UUID, title string, passingScore *int) (Quiz, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Quiz{}, errors.New("quizzes: title required")
	}
	if passingScore != nil && (*passingScore <= 0 || *passingScore > 100) {
		return Quiz{}, errors.New("quizzes: passing score out of range")
	}
	return s.repo.CreateQuiz(ctx, Quiz{ID: uuid.New(), CourseID: courseID, Title: title, PassingScore: passingScore})
}

// SubmitAttempt records a completed attempt for the user.
func (s *Service) SubmitAttempt(ctx context.Context, quizID, userID uuid.UUID, percentage float64) (Attempt, error) {
	if percentage < 0 || percentage > 100 {
		return Attempt{}, errors.New("quizzes: percentage out of range")
	}
	if _, err := s.repo.GetQuiz(ctx, quizID); err != nil {
		return Attempt{}, err
	}
	submittedAt := s.now()
	return s.repo.CreateAttempt(ctx, Attempt{
		ID:          uuid.New(),
		QuizID:      quizID,
		UserID:      userID,
		Percentage:  percentage,
		Status:      AttemptCompleted,
		SubmittedAt: &submittedAt,
	})
}

// RecentResults returns the user's recently completed attempts.
func (s *Service) RecentResults(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]AttemptResult, error) {
	return s.repo.ListRecentCompleted(ctx, userID, since, limit)
}
