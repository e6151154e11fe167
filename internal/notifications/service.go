package notifications

import (
	"context"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/brightpath-lms/brightpath/internal/shared"
)

// Service merges generated feeds with persisted read state.
type Service struct {
	generator *Generator
	reads     ReadStore
	cache     *Cache
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the notification service.
func NewService(generator *Generator, reads ReadStore, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		generator: generator,
		reads:     reads,
		cache:     cache,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock. Test hook.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// List returns the identity's feed with read flags merged in. A failing
// read-state lookup degrades to the unmerged feed rather than failing the
// request.
func (s *Service) List(ctx context.Context, ident shared.Identity) []Record {
	records := s.generator.Generate(ctx, ident, s.now())

	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	read, err := s.reads.ReadStatus(ctx, ident.UserID, ids)
	if err != nil {
		s.logger.Warn("merge notification read state", slog.Any("error", err))
		return records
	}
	for i := range records {
		records[i].IsRead = read[records[i].ID]
	}
	return records
}

// UnreadCount returns how many of the identity's notifications are unread,
// served from cache when fresh.
func (s *Service) UnreadCount(ctx context.Context, ident shared.Identity) (int, error) {
	if count, ok, err := s.cache.UnreadCount(ctx, ident.UserID); err != nil {
		s.logger.Warn("read unread count cache", slog.Any("error", err))
	} else if ok {
		return count, nil
	}

	count := 0
	for _, rec := range s.List(ctx, ident) {
		if !rec.IsRead {
			count++
		}
	}
	if err := s.cache.SetUnreadCount(ctx, ident.UserID, count); err != nil {
		s.logger.Warn("store unread count cache", slog.Any("error", err))
	}
	return count, nil
}

// MarkRead marks a single notification read for the user. Safe to retry.
func (s *Service) MarkRead(ctx context.Context, userID uuid.UUID, notificationID string) error {
	if err := s.reads.MarkRead(ctx, userID, notificationID, s.now()); err != nil {
		return err
	}
	s.bumpCache(ctx)
	return nil
}

// MarkAllRead regenerates the identity's feed and marks every id in it
// read, returning how many were marked. Regeneration goes through the same
// generator as List so the id sets always agree.
func (s *Service) MarkAllRead(ctx context.Context, ident shared.Identity) (int, error) {
	records := s.generator.Generate(ctx, ident, s.now())
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	if err := s.reads.MarkAllRead(ctx, ident.UserID, ids, s.now()); err != nil {
		return 0, err
	}
	s.bumpCache(ctx)
	return len(ids), nil
}

func (s *Service) bumpCache(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("bump notification cache", slog.Any("error", err))
	}
}
