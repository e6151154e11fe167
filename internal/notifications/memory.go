package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryReadStore is an in-process ReadStore for degraded mode and tests.
// It is an explicit, injected implementation selected at startup, never
// ambient module-level state.
type MemoryReadStore struct {
	mu    sync.RWMutex
	reads map[uuid.UUID]map[string]time.Time
}

// NewMemoryReadStore constructs a MemoryReadStore.
func NewMemoryReadStore() *MemoryReadStore {
	return &MemoryReadStore{reads: make(map[uuid.UUID]map[string]time.Time)}
}

// MarkRead implements ReadStore. Marking an already-read id again is a
// no-op that still refreshes the read timestamp.
func (s *MemoryReadStore) MarkRead(ctx context.Context, userID uuid.UUID, notificationID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mark(userID, notificationID, at)
	return nil
}

// MarkAllRead implements ReadStore.
func (s *MemoryReadStore) MarkAllRead(ctx context.Context, userID uuid.UUID, notificationIDs []string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range notificationIDs {
		s.mark(userID, id, at)
	}
	return nil
}

// ReadStatus implements ReadStore.
func (s *MemoryReadStore) ReadStatus(ctx context.Context, userID uuid.UUID, notificationIDs []string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	read := make(map[string]bool, len(notificationIDs))
	userReads := s.reads[userID]
	for _, id := range notificationIDs {
		if _, ok := userReads[id]; ok {
			read[id] = true
		}
	}
	return read, nil
}

// ReadAt reports when an id was last marked read. Test helper.
func (s *MemoryReadStore) ReadAt(userID uuid.UUID, notificationID string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.reads[userID][notificationID]
	return at, ok
}

func (s *MemoryReadStore) mark(userID uuid.UUID, notificationID string, at time.Time) {
	userReads, ok := s.reads[userID]
	if !ok {
		userReads = make(map[string]time.Time)
		s.reads[userID] = userReads
	}
	userReads[notificationID] = at
}
