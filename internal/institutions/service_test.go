package institutions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-lms/brightpath/internal/shared"
)

type mockRepo struct {
	memberships  map[uuid.UUID]Membership
	byUser       map[uuid.UUID]uuid.UUID
	institutions map[uuid.UUID]Institution
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		memberships:  make(map[uuid.UUID]Membership),
		byUser:       make(map[uuid.UUID]uuid.UUID),
		institutions: make(map[uuid.UUID]Institution),
	}
}

func (m *mockRepo) CreateInstitution(ctx context.Context, inst Institution) (Institution, error) {
	inst.CreatedAt = time.Now()
	m.institutions[inst.ID] = inst
	return inst, nil
}

func (m *mockRepo) GetInstitution(ctx context.Context, id uuid.UUID) (Institution, error) {
	inst, ok := m.institutions[id]
	if !ok {
		return Institution{}, shared.ErrNotFound
	}
	return inst, nil
}

func (m *mockRepo) CreateMembership(ctx context.Context, mem Membership) (Membership, error) {
	if _, exists := m.byUser[mem.UserID]; exists {
		return Membership{}, shared.ErrDuplicate
	}
	mem.CreatedAt = time.Now()
	mem.UpdatedAt = mem.CreatedAt
	m.memberships[mem.ID] = mem
	m.byUser[mem.UserID] = mem.ID
	return mem, nil
}

func (m *mockRepo) GetMembership(ctx context.Context, id uuid.UUID) (Membership, error) {
	mem, ok := m.memberships[id]
	if !ok {
		return Membership{}, shared.ErrNotFound
	}
	return mem, nil
}

func (m *mockRepo) GetMembershipByUser(ctx context.Context, userID uuid.UUID) (Membership, error) {
	id, ok := m.byUser[userID]
	if !ok {
		return Membership{}, shared.ErrNotFound
	}
	return m.memberships[id], nil
}

func (m *mockRepo) Activate(ctx context.Context, id, actorID uuid.UUID, at time.Time) error {
	mem, ok := m.memberships[id]
	if !ok {
		return shared.ErrNotFound
	}
	mem.Status = StatusActive
	mem.ApprovalStatus = ApprovalApproved
	mem.ApprovedBy = &actorID
	mem.ApprovedAt = &at
	m.memberships[id] = mem
	return nil
}

func (m *mockRepo) Reject(ctx context.Context, id, actorID uuid.UUID, reason string, at time.Time) error {
	mem, ok := m.memberships[id]
	if !ok {
		return shared.ErrNotFound
	}
	mem.Status = StatusRejected
	mem.ApprovalStatus = ApprovalRejected
	mem.RejectedBy = &actorID
	mem.RejectedAt = &at
	mem.RejectNote = reason
	m.memberships[id] = mem
	return nil
}

func (m *mockRepo) ListMemberships(ctx context.Context, institutionID uuid.UUID) ([]Membership, error) {
	var out []Membership
	for _, mem := range m.memberships {
		if mem.InstitutionID != nil && *mem.InstitutionID == institutionID {
			out = append(out, mem)
		}
	}
	return out, nil
}

func TestApplyCreatesPendingMembership(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	userID, instID := uuid.New(), uuid.New()
	mem, err := svc.Apply(context.Background(), userID, instID, shared.RoleInstructor, []string{shared.PermManageCourses})
	require.NoError(t, err)
	require.Equal(t, StatusPending, mem.Status)
	require.Equal(t, ApprovalPending, mem.ApprovalStatus)

	// Second application for the same user must violate uniqueness.
	_, err = svc.Apply(context.Background(), userID, instID, shared.RoleInstructor, nil)
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestApplyRejectsUnknownRole(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.Apply(context.Background(), uuid.New(), uuid.New(), "Wizard", nil)
	require.Error(t, err)
}

func TestApproveRecordsActorAndTimestamp(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	mem, err := svc.Apply(context.Background(), uuid.New(), uuid.New(), shared.RoleStudent, nil)
	require.NoError(t, err)

	actor := uuid.New()
	require.NoError(t, svc.Approve(context.Background(), mem.ID, actor))

	stored := repo.memberships[mem.ID]
	require.Equal(t, StatusActive, stored.Status)
	require.Equal(t, ApprovalApproved, stored.ApprovalStatus)
	require.Equal(t, actor, *stored.ApprovedBy)
	require.Equal(t, fixed, *stored.ApprovedAt)
}

func TestRejectRecordsReason(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	mem, err := svc.Apply(context.Background(), uuid.New(), uuid.New(), shared.RoleStudent, nil)
	require.NoError(t, err)

	actor := uuid.New()
	require.NoError(t, svc.Reject(context.Background(), mem.ID, actor, "  incomplete application  "))

	stored := repo.memberships[mem.ID]
	require.Equal(t, StatusRejected, stored.Status)
	require.Equal(t, "incomplete application", stored.RejectNote)
	require.Equal(t, actor, *stored.RejectedBy)
}

func TestPermissionsForOnlyActiveGrants(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	userID := uuid.New()
	mem, err := svc.Apply(context.Background(), userID, uuid.New(), shared.RoleInstructor, []string{shared.PermManageCourses})
	require.NoError(t, err)

	// Pending membership grants nothing.
	perms, err := svc.PermissionsFor(context.Background(), userID)
	require.NoError(t, err)
	require.Empty(t, perms)

	require.NoError(t, svc.Approve(context.Background(), mem.ID, uuid.New()))
	perms, err = svc.PermissionsFor(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, []string{shared.PermManageCourses}, perms)
}

func TestInstitutionFor(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	// No membership at all.
	_, err := svc.InstitutionFor(context.Background(), uuid.New())
	require.ErrorIs(t, err, shared.ErrNotFound)

	// Membership without an institution reference.
	userID := uuid.New()
	memID := uuid.New()
	repo.memberships[memID] = Membership{ID: memID, UserID: userID, Status: StatusActive}
	repo.byUser[userID] = memID
	_, err = svc.InstitutionFor(context.Background(), userID)
	require.ErrorIs(t, err, shared.ErrNoInstitution)

	// Proper association resolves.
	other := uuid.New()
	instID := uuid.New()
	_, err = svc.Apply(context.Background(), other, instID, shared.RoleStudent, nil)
	require.NoError(t, err)
	got, err := svc.InstitutionFor(context.Background(), other)
	require.NoError(t, err)
	require.Equal(t, instID, got)
}

func TestCreateInstitutionNormalizesName(t *testing.T) {
	svc := NewService(newMockRepo())
	inst, err := svc.CreateInstitution(context.Background(), "  greenwood  academy ", "gwa")
	require.NoError(t, err)
	require.Equal(t, "Greenwood  Academy", inst.Name)
	require.Equal(t, "GWA", inst.Code)
}
