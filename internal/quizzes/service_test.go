package quizzes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-lms/brightpath/internal/shared"
)

type mockRepo struct {
	quizzes  map[uuid.UUID]Quiz
	attempts []Attempt
	results  []AttemptResult

	recentUser  uuid.UUID
	recentSince time.Time
	recentLimit int
}

func newMockRepo() *mockRepo {
	return &mockRepo{quizzes: make(map[uuid.UUID]Quiz)}
}

func (m *mockRepo) CreateQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	m.quizzes[q.ID] = q
	return q, nil
}

func (m *mockRepo) GetQuiz(ctx context.Context, id uuid.UUID) (Quiz, error) {
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, shared.ErrNotFound
	}
	return q, nil
}

func (m *mockRepo) CreateAttempt(ctx context.Context, a Attempt) (Attempt, error) {
	m.attempts = append(m.attempts, a)
	return a, nil
}

func (m *mockRepo) ListRecentCompleted(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]AttemptResult, error) {
	m.recentUser, m.recentSince, m.recentLimit = userID, since, limit
	return m.results, nil
}

func TestCreateQuizValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	courseID := uuid.New()

	_, err := svc.CreateQuiz(context.Background(), courseID, "   ", nil)
	require.Error(t, err)

	tooHigh := 120
	_, err = svc.CreateQuiz(context.Background(), courseID, "Unit 1", &tooHigh)
	require.Error(t, err)

	score := 80
	quiz, err := svc.CreateQuiz(context.Background(), courseID, "  Unit 1  ", &score)
	require.NoError(t, err)
	require.Equal(t, "Unit 1", quiz.Title)
	require.Equal(t, 80, *quiz.PassingScore)

	// Nil passing score defers to the course/platform default.
	quiz, err = svc.CreateQuiz(context.Background(), courseID, "Unit 2", nil)
	require.NoError(t, err)
	require.Nil(t, quiz.PassingScore)
}

func TestSubmitAttempt(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	quiz, err := svc.CreateQuiz(context.Background(), uuid.New(), "Unit 1", nil)
	require.NoError(t, err)
	userID := uuid.New()

	_, err = svc.SubmitAttempt(context.Background(), quiz.ID, userID, 130)
	require.Error(t, err)

	_, err = svc.SubmitAttempt(context.Background(), uuid.New(), userID, 70)
	require.ErrorIs(t, err, shared.ErrNotFound)

	attempt, err := svc.SubmitAttempt(context.Background(), quiz.ID, userID, 85)
	require.NoError(t, err)
	require.Equal(t, AttemptCompleted, attempt.Status)
	require.Equal(t, now, *attempt.SubmittedAt)
	require.Len(t, repo.attempts, 1)
}

func TestRecentResults(t *testing.T) {
	repo := newMockRepo()
	repo.results = []AttemptResult{
		{Attempt: Attempt{ID: uuid.New(), Percentage: 85}, QuizTitle: "Unit 1", PassingScore: 70},
	}
	svc := NewService(repo)

	userID := uuid.New()
	since := time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC)
	results, err := svc.RecentResults(context.Background(), userID, since, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Unit 1", results[0].QuizTitle)
	require.Equal(t, userID, repo.recentUser)
	require.Equal(t, since, repo.recentSince)
	require.Equal(t, 10, repo.recentLimit)
}
