package perf

import (
	"context"
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/brightpath-lms/brightpath/internal/notifications"
	"github.com/brightpath-lms/brightpath/internal/shared"
)

type benchSource struct {
	approvals   []notifications.PendingApproval
	enrollments []notifications.RecentEnrollment
}

func (s *benchSource) PendingApprovals(ctx context.Context, since time.Time, limit int) ([]notifications.PendingApproval, error) {
	return s.approvals, nil
}

func (s *benchSource) RecentEnrollments(ctx context.Context, since time.Time, limit int) ([]notifications.RecentEnrollment, error) {
	return s.enrollments, nil
}

func (s *benchSource) CourseUpdates(ctx context.Context, studentID uuid.UUID, since time.Time) ([]notifications.CourseUpdate, error) {
	return nil, nil
}

func (s *benchSource) RecentQuizResults(ctx context.Context, studentID uuid.UUID, since time.Time, limit int) ([]notifications.QuizResult, error) {
	return nil, nil
}

func BenchmarkGenerateModeratorFeed(b *testing.B) {
	now := time.Now().UTC()
	src := &benchSource{}
	for i := 0; i < 5; i++ {
		src.approvals = append(src.approvals, notifications.PendingApproval{
			UserID:    uuid.New(),
			Name:      "Pending User",
			Role:      shared.RoleStudent,
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	for i := 0; i < 3; i++ {
		src.enrollments = append(src.enrollments, notifications.RecentEnrollment{
			EnrollmentID: uuid.New(),
			StudentName:  "Student",
			CourseTitle:  "Course",
			CreatedAt:    now.Add(-time.Duration(i) * time.Hour),
		})
	}
	gen := notifications.NewGenerator(src, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ident := shared.Identity{UserID: uuid.New(), Role: shared.RoleModerator}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		records := gen.Generate(ctx, ident, now)
		if len(records) != 9 {
			b.Fatalf("unexpected feed size %d", len(records))
		}
	}
}

func BenchmarkMarkAllRead(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := notifications.NewService(
		notifications.NewGenerator(nil, logger),
		notifications.NewMemoryReadStore(),
		nil,
		logger,
	)
	ident := shared.Identity{UserID: uuid.New(), Role: shared.RoleStudent}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.MarkAllRead(ctx, ident); err != nil {
			b.Fatal(err)
		}
	}
}
