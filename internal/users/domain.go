package users

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus tracks the moderation decision on a user account.
type ApprovalStatus string

// Possible approval statuses.
const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// User represents a user account. The decision fields record who settled the
// approval, when, and why a rejection happened.
type User struct {
	ID             uuid.UUID
	Email          string
	Name           string
	Role           string
	ApprovalStatus ApprovalStatus
	IsActive       bool
	DecidedBy      *uuid.UUID
	DecidedAt      *time.Time
	RejectReason   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
