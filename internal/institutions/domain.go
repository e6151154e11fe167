package institutions

import (
	"time"

	"github.com/google/uuid"
)

// Institution represents a registered learning institution.
type Institution struct {
	ID        uuid.UUID
	Name      string
	Code      string
	CreatedAt time.Time
}

// MembershipStatus tracks the membership lifecycle.
type MembershipStatus string

// ApprovalStatus tracks the moderation decision on a membership.
type ApprovalStatus string

// Membership lifecycle states. A membership is created pending/pending and
// moves to active/approved or rejected/rejected through explicit actions.
const (
	StatusPending  MembershipStatus = "pending"
	StatusActive   MembershipStatus = "active"
	StatusRejected MembershipStatus = "rejected"

	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Membership associates a user with an institution, a role and the
// permission set effective inside that institution. At most one membership
// exists per (user, institution) pair.
type Membership struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	InstitutionID  *uuid.UUID
	Role           string
	Status         MembershipStatus
	ApprovalStatus ApprovalStatus
	Permissions    []string

	ApprovedBy *uuid.UUID
	ApprovedAt *time.Time
	RejectedBy *uuid.UUID
	RejectedAt *time.Time
	RejectNote string

	CreatedAt time.Time
	UpdatedAt time.Time
}
