package institutions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/brightpath-lms/brightpath/internal/shared"
)

// RepositoryPort defines data access methods for institutions.
type RepositoryPort interface {
	CreateInstitution(ctx context.Context, inst Institution) (Institution, error)
	GetInstitution(ctx context.Context, id uuid.UUID) (Institution, error)
	CreateMembership(ctx context.Context, m Membership) (Membership, error)
	GetMembership(ctx context.Context, id uuid.UUID) (Membership, error)
	GetMembershipByUser(ctx context.Context, userID uuid.UUID) (Membership, error)
	Activate(ctx context.Context, id, actorID uuid.UUID, at time.Time) error
	Reject(ctx context.Context, id, actorID uuid.UUID, reason string, at time.Time) error
	ListMemberships(ctx context.Context, institutionID uuid.UUID) ([]Membership, error)
}

var titleCaser = cases.Title(language.English)

// Service handles institution and membership business logic. It also serves
// as the membership source for the rbac guards.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateInstitution registers a new institution with a normalized display name.
func (s *Service) CreateInstitution(ctx context.Context, name, code string) (Institution, error) {
	name = titleCaser.String(strings.TrimSpace(name))
	if name == "" {
		return Institution{}, errors.New("institutions: name required")
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Institution{}, errors.New("institutions: code required")
	}
	return s.repo.CreateInstitution(ctx, Institution{ID: uuid.New(), Name: name, Code: code})
}

// GetInstitution fetches an institution by id.
func (s *Service) GetInstitution(ctx context.Context, id uuid.UUID) (Institution, error) {
	return s.repo.GetInstitution(ctx, id)
}

// Apply creates a pending membership for the user. Duplicate applications
// for the same institution surface shared.ErrDuplicate.
func (s *Service) Apply(ctx context.Context, userID, institutionID uuid.UUID, role string, permissions []string) (Membership, error) {
	if shared.RoleRank(role) == 0 {
		return Membership{}, errors.New("institutions: unknown role")
	}
	return s.repo.CreateMembership(ctx, Membership{
		ID:             uuid.New(),
		UserID:         userID,
		InstitutionID:  &institutionID,
		Role:           role,
		Status:         StatusPending,
		ApprovalStatus: ApprovalPending,
		Permissions:    permissions,
	})
}

// Approve activates a pending membership, recording actor and timestamp.
func (s *Service) Approve(ctx context.Context, membershipID, actorID uuid.UUID) error {
	return s.repo.Activate(ctx, membershipID, actorID, s.now())
}

// Reject rejects a pending membership, recording actor, timestamp and reason.
func (s *Service) Reject(ctx context.Context, membershipID, actorID uuid.UUID, reason string) error {
	return s.repo.Reject(ctx, membershipID, actorID, strings.TrimSpace(reason), s.now())
}

// ListMemberships returns memberships for an institution.
func (s *Service) ListMemberships(ctx context.Context, institutionID uuid.UUID) ([]Membership, error) {
	return s.repo.ListMemberships(ctx, institutionID)
}

// PermissionsFor loads the user's permission set from the persisted
// membership record. Always fresh: revocation takes effect on the next
// request.
func (s *Service) PermissionsFor(ctx context.Context, userID uuid.UUID) ([]string, error) {
	m, err := s.repo.GetMembershipByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if m.Status != StatusActive {
		// Pending and rejected memberships grant nothing.
		return []string{}, nil
	}
	return m.Permissions, nil
}

// InstitutionFor resolves the institution the user belongs to.
func (s *Service) InstitutionFor(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	m, err := s.repo.GetMembershipByUser(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	if m.InstitutionID == nil {
		return uuid.Nil, shared.ErrNoInstitution
	}
	return *m.InstitutionID, nil
}
