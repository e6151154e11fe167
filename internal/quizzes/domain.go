package quizzes

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus tracks the lifecycle of a quiz attempt.
type AttemptStatus string

// Possible attempt statuses.
const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
)

// Quiz belongs to a course. PassingScore overrides the course default when
// set; the configured threshold always wins over the platform fallback.
type Quiz struct {
	ID           uuid.UUID
	CourseID     uuid.UUID
	Title        string
	PassingScore *int
	CreatedAt    time.Time
}

// Attempt records a user's run at a quiz.
type Attempt struct {
	ID          uuid.UUID
	QuizID      uuid.UUID
	UserID      uuid.UUID
	Percentage  float64
	Status      AttemptStatus
	SubmittedAt *time.Time
	CreatedAt   time.Time
}

// AttemptResult joins an attempt with the quiz it belongs to, carrying the
// effective passing threshold.
type AttemptResult struct {
	Attempt
	QuizTitle    string
	PassingScore int
}
