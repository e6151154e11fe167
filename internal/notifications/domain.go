// Package notifications synthesizes a per-request notification feed from the
// underlying collections and tracks per-user read state. Records are never
// persisted; their identifiers are deterministic so independently generated
// lists agree on which row is which.
package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Priority orders notifications for display emphasis.
type Priority string

// Notification priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Notification types.
const (
	TypeUserApproval = "user_approval"
	TypeEnrollment   = "enrollment"
	TypeCourseUpdate = "course_update"
	TypeQuizResult   = "quiz_result"
	TypeSystem       = "system"
)

// WelcomeID is the fixed identifier of the static system notification every
// requester receives.
const WelcomeID = "system_welcome"

// Record is a transient notification. IsRead is merged in by the caller
// after generation; the generator itself never sees read state.
type Record struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `json:"is_read"`
}

// recordID builds the deterministic identifier for a record. Both the list
// path and the mark-all-read path derive ids through this single routine;
// they must stay byte-identical for read-state lookups to line up.
func recordID(prefix string, entityID uuid.UUID) string {
	return prefix + "_" + entityID.String()
}
