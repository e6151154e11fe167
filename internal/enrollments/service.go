package enrollments

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for enrollments.
type RepositoryPort interface {
	Create(ctx context.Context, e Enrollment) (Enrollment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Enrollment, error)
	ListRecent(ctx context.Context, since time.Time, limit int) ([]Detail, error)
	TouchAccess(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Service handles enrollment business logic.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Enroll registers the user on a course.
func (s *Service) Enroll(ctx context.Context, userID, courseID uuid.UUID) (Enrollment, error) {
	return s.repo.Create(ctx, Enrollment{ID: uuid.New(), UserID: userID, CourseID: courseID})
}

// ListMine returns the requester's enrollments.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]Enrollment, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Recent returns the latest enrollments with display names for the
// moderation view.
func (s *Service) Recent(ctx context.Context, since time.Time, limit int) ([]Detail, error) {
	return s.repo.ListRecent(ctx, since, limit)
}

// RecordAccess notes that a course was opened through an enrollment.
func (s *Service) RecordAccess(ctx context.Context, id uuid.UUID) error {
	return s.repo.TouchAccess(ctx, id, s.now())
}
