package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMemoryReadStoreMarkReadIdempotent(t *testing.T) {
	store := NewMemoryReadStore()
	userID := uuid.New()
	first := fixedNow()
	later := first.Add(10 * time.Minute)

	require.NoError(t, store.MarkRead(context.Background(), userID, WelcomeID, first))
	require.NoError(t, store.MarkRead(context.Background(), userID, WelcomeID, later))

	read, err := store.ReadStatus(context.Background(), userID, []string{WelcomeID})
	require.NoError(t, err)
	require.True(t, read[WelcomeID])

	// Re-marking stays read and refreshes the timestamp.
	at, ok := store.ReadAt(userID, WelcomeID)
	require.True(t, ok)
	require.Equal(t, later, at)
}

func TestMemoryReadStoreMarkAllRead(t *testing.T) {
	store := NewMemoryReadStore()
	userID := uuid.New()
	now := fixedNow()
	ids := []string{"a", "b", "c"}

	require.NoError(t, store.MarkAllRead(context.Background(), userID, ids[:2], now))

	read, err := store.ReadStatus(context.Background(), userID, ids)
	require.NoError(t, err)
	require.True(t, read["a"])
	require.True(t, read["b"])
	require.False(t, read["c"])
}

func TestMemoryReadStoreScopedPerUser(t *testing.T) {
	store := NewMemoryReadStore()
	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, store.MarkRead(context.Background(), alice, WelcomeID, fixedNow()))

	read, err := store.ReadStatus(context.Background(), bob, []string{WelcomeID})
	require.NoError(t, err)
	require.False(t, read[WelcomeID])
}
