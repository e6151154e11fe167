package enrollments

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment captures a student's registration to a course.
type Enrollment struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	CourseID     uuid.UUID
	CreatedAt    time.Time
	LastAccessed *time.Time
}

// Detail enriches Enrollment with student and course info for listings and
// the moderation feed.
type Detail struct {
	Enrollment
	StudentName string
	CourseTitle string
}
