package notifications

import (
	"context"
	"fmt"
	"sort"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/brightpath-lms/brightpath/internal/shared"
)

// Time windows and slice limits for the generated feed.
const (
	approvalWindow = 7 * 24 * time.Hour
	recentWindow   = 24 * time.Hour

	maxApprovals   = 5
	maxEnrollments = 3
	maxQuizResults = 3
)

// PendingApproval is a user account awaiting moderation.
type PendingApproval struct {
	UserID    uuid.UUID
	Name      string
	Role      string
	CreatedAt time.Time
}

// RecentEnrollment is an enrollment for the moderation feed.
type RecentEnrollment struct {
	EnrollmentID uuid.UUID
	StudentName  string
	CourseTitle  string
	CreatedAt    time.Time
}

// CourseUpdate is a course recently changed under one of the requester's
// enrollments.
type CourseUpdate struct {
	CourseID  uuid.UUID
	Title     string
	UpdatedAt time.Time
}

// QuizResult is a completed attempt with its effective passing threshold.
type QuizResult struct {
	AttemptID    uuid.UUID
	QuizTitle    string
	Percentage   float64
	PassingScore int
	SubmittedAt  time.Time
}

// Source supplies the time-windowed slices the generator reads. All methods
// return newest-first, already limited.
type Source interface {
	PendingApprovals(ctx context.Context, since time.Time, limit int) ([]PendingApproval, error)
	RecentEnrollments(ctx context.Context, since time.Time, limit int) ([]RecentEnrollment, error)
	CourseUpdates(ctx context.Context, studentID uuid.UUID, since time.Time) ([]CourseUpdate, error)
	RecentQuizResults(ctx context.Context, studentID uuid.UUID, since time.Time, limit int) ([]QuizResult, error)
}

// Generator produces the notification feed for an identity at a point in
// time. Purely a read/compute operation: no side effects, no read state.
type Generator struct {
	source Source
	logger *slog.Logger
}

// NewGenerator builds a Generator. A nil source puts the generator in
// degraded mode where it serves the fixed fallback feed.
func NewGenerator(source Source, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{source: source, logger: logger}
}

// Generate returns the ordered (newest-first) feed for the identity. It
// never fails the request: without a backing store it serves the fallback
// feed, and a failing slice query is logged and skipped.
func (g *Generator) Generate(ctx context.Context, ident shared.Identity, now time.Time) []Record {
	if g.source == nil {
		return Fallback(now)
	}

	var records []Record

	if shared.CanModerate(ident.Role) {
		records = append(records, g.approvalRecords(ctx, now)...)
		records = append(records, g.enrollmentRecords(ctx, now)...)
	}

	if ident.Role == shared.RoleStudent {
		records = append(records, g.courseUpdateRecords(ctx, ident.UserID, now)...)
		records = append(records, g.quizResultRecords(ctx, ident.UserID, now)...)
	}

	records = append(records, welcomeRecord(now))

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records
}

func (g *Generator) approvalRecords(ctx context.Context, now time.Time) []Record {
	pending, err := g.source.PendingApprovals(ctx, now.Add(-approvalWindow), maxApprovals)
	if err != nil {
		g.logger.Warn("generate approval notifications", slog.Any("error", err))
		return nil
	}
	records := make([]Record, 0, len(pending))
	for _, p := range pending {
		records = append(records, Record{
			ID:        recordID(TypeUserApproval, p.UserID),
			Type:      TypeUserApproval,
			Title:     "New User Registration",
			Message:   fmt.Sprintf("%s is waiting for approval", p.Name),
			Priority:  PriorityHigh,
			CreatedAt: p.CreatedAt,
		})
	}
	return records
}

func (g *Generator) enrollmentRecords(ctx context.Context, now time.Time) []Record {
	recent, err := g.source.RecentEnrollments(ctx, now.Add(-recentWindow), maxEnrollments)
	if err != nil {
		g.logger.Warn("generate enrollment notifications", slog.Any("error", err))
		return nil
	}
	records := make([]Record, 0, len(recent))
	for _, e := range recent {
		records = append(records, Record{
			ID:        recordID(TypeEnrollment, e.EnrollmentID),
			Type:      TypeEnrollment,
			Title:     "New Enrollment",
			Message:   fmt.Sprintf("%s enrolled in %s", e.StudentName, e.CourseTitle),
			Priority:  PriorityMedium,
			CreatedAt: e.CreatedAt,
		})
	}
	return records
}

func (g *Generator) courseUpdateRecords(ctx context.Context, studentID uuid.UUID, now time.Time) []Record {
	updates, err := g.source.CourseUpdates(ctx, studentID, now.Add(-recentWindow))
	if err != nil {
		g.logger.Warn("generate course update notifications", slog.Any("error", err))
		return nil
	}
	records := make([]Record, 0, len(updates))
	for _, u := range updates {
		records = append(records, Record{
			ID:        recordID(TypeCourseUpdate, u.CourseID),
			Type:      TypeCourseUpdate,
			Title:     "Course Updated",
			Message:   fmt.Sprintf("%s has new content", u.Title),
			Priority:  PriorityMedium,
			CreatedAt: u.UpdatedAt,
		})
	}
	return records
}

func (g *Generator) quizResultRecords(ctx context.Context, studentID uuid.UUID, now time.Time) []Record {
	results, err := g.source.RecentQuizResults(ctx, studentID, now.Add(-recentWindow), maxQuizResults)
	if err != nil {
		g.logger.Warn("generate quiz result notifications", slog.Any("error", err))
		return nil
	}
	records := make([]Record, 0, len(results))
	for _, res := range results {
		title := "Quiz Completed"
		priority := PriorityMedium
		if res.Percentage >= float64(res.PassingScore) {
			title = "Quiz Passed!"
			priority = PriorityHigh
		}
		records = append(records, Record{
			ID:        recordID(TypeQuizResult, res.AttemptID),
			Type:      TypeQuizResult,
			Title:     title,
			Message:   fmt.Sprintf("You scored %.0f%% on %s", res.Percentage, res.QuizTitle),
			Priority:  priority,
			CreatedAt: res.SubmittedAt,
		})
	}
	return records
}

func welcomeRecord(now time.Time) Record {
	return Record{
		ID:        WelcomeID,
		Type:      TypeSystem,
		Title:     "Welcome to BrightPath",
		Message:   "Explore your courses from the dashboard",
		Priority:  PriorityLow,
		CreatedAt: now,
	}
}

// Fallback is the fixed feed served when no backing store is available.
// The generator degrades gracefully instead of failing the request.
func Fallback(now time.Time) []Record {
	return []Record{
		welcomeRecord(now),
		{
			ID:        "system_offline",
			Type:      TypeSystem,
			Title:     "Limited Mode",
			Message:   "Live notifications are temporarily unavailable",
			Priority:  PriorityLow,
			CreatedAt: now,
		},
	}
}
