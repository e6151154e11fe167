package enrollments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	enrollments []Enrollment
	details     []Detail

	recentSince time.Time
	recentLimit int
}

func (m *mockRepo) Create(ctx context.Context, e Enrollment) (Enrollment, error) {
	m.enrollments = append(m.enrollments, e)
	return e, nil
}

func (m *mockRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Enrollment, error) {
	var out []Enrollment
	for _, e := range m.enrollments {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockRepo) ListRecent(ctx context.Context, since time.Time, limit int) ([]Detail, error) {
	m.recentSince, m.recentLimit = since, limit
	return m.details, nil
}

func (m *mockRepo) TouchAccess(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func TestRecentForwardsWindow(t *testing.T) {
	repo := &mockRepo{details: []Detail{
		{Enrollment: Enrollment{ID: uuid.New()}, StudentName: "Ada Lovelace", CourseTitle: "Biology 101"},
	}}
	svc := NewService(repo)

	since := time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC)
	list, err := svc.Recent(context.Background(), since, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Ada Lovelace", list[0].StudentName)
	require.Equal(t, since, repo.recentSince)
	require.Equal(t, 20, repo.recentLimit)
}

func TestEnrollAssignsID(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	userID, courseID := uuid.New(), uuid.New()
	enrollment, err := svc.Enroll(context.Background(), userID, courseID)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, enrollment.ID)
	require.Equal(t, userID, enrollment.UserID)
	require.Equal(t, courseID, enrollment.CourseID)

	mine, err := svc.ListMine(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
}
