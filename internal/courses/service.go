package courses

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for courses.
type RepositoryPort interface {
	Create(ctx context.Context, c Course) (Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (Course, error)
	ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]Course, error)
	Touch(ctx context.Context, id uuid.UUID) error
}

// Service handles course business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create registers a new course under an institution.
func (s *Service) Create(ctx context.Context, institutionID, instructorID uuid.UUID, title, description string, passingScore int) (Course, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Course{}, errors.New("courses: title required")
	}
	if passingScore <= 0 || passingScore > 100 {
		passingScore = DefaultPassingScore
	}
	return s.repo.Create(ctx, Course{
		ID:            uuid.New(),
		InstitutionID: institutionID,
		InstructorID:  instructorID,
		Title:         title,
		Description:   strings.TrimSpace(description),
		PassingScore:  passingScore,
	})
}

// Get fetches a course by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Course, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByInstitution returns the institution's courses.
func (s *Service) ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]Course, error) {
	return s.repo.ListByInstitution(ctx, institutionID)
}

// MarkUpdated records new course content, surfacing the course in student
// update notifications for the next 24 hours.
func (s *Service) MarkUpdated(ctx context.Context, id uuid.UUID) error {
	return s.repo.Touch(ctx, id)
}
