package courses

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPassingScore applies when a course has no configured threshold.
const DefaultPassingScore = 70

// Course represents a course offered by an institution.
type Course struct {
	ID            uuid.UUID
	InstitutionID uuid.UUID
	InstructorID  uuid.UUID
	Title         string
	Description   string
	PassingScore  int
	IsPublished   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
