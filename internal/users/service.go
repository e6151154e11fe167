package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	List(ctx context.Context) ([]User, error)
	ListPendingApproval(ctx context.Context, since time.Time, limit int) ([]User, error)
	SetApproval(ctx context.Context, id uuid.UUID, status ApprovalStatus, actorID uuid.UUID, at time.Time, reason string) error
}

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns a single user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// ListPendingApproval returns recent pending-approval accounts.
func (s *Service) ListPendingApproval(ctx context.Context, since time.Time, limit int) ([]User, error) {
	return s.repo.ListPendingApproval(ctx, since, limit)
}

// Approve marks a user account approved, recording the deciding actor.
func (s *Service) Approve(ctx context.Context, id, actorID uuid.UUID) error {
	return s.repo.SetApproval(ctx, id, ApprovalApproved, actorID, s.now(), "")
}

// Reject marks a user account rejected, recording the actor and reason.
func (s *Service) Reject(ctx context.Context, id, actorID uuid.UUID, reason string) error {
	return s.repo.SetApproval(ctx, id, ApprovalRejected, actorID, s.now(), strings.TrimSpace(reason))
}
