package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReadStore persists the (user, notification id) read mapping. All writes
// are idempotent upserts; retrying a whole batch is always safe.
type ReadStore interface {
	// MarkRead upserts a single row, refreshing read_at.
	MarkRead(ctx context.Context, userID uuid.UUID, notificationID string, at time.Time) error
	// MarkAllRead applies the same upsert per id. No batch atomicity is
	// promised beyond per-id idempotence.
	MarkAllRead(ctx context.Context, userID uuid.UUID, notificationIDs []string, at time.Time) error
	// ReadStatus returns the subset of ids currently marked read.
	ReadStatus(ctx context.Context, userID uuid.UUID, notificationIDs []string) (map[string]bool, error)
}

const upsertReadSQL = `INSERT INTO notification_reads (user_id, notification_id, is_read, read_at)
VALUES ($1, $2, TRUE, $3)
ON CONFLICT (user_id, notification_id) DO UPDATE SET is_read = TRUE, read_at = EXCLUDED.read_at`

// PGReadStore is the PostgreSQL backed ReadStore.
type PGReadStore struct {
	pool *pgxpool.Pool
}

// NewPGReadStore constructs a PGReadStore.
func NewPGReadStore(pool *pgxpool.Pool) *PGReadStore {
	return &PGReadStore{pool: pool}
}

// MarkRead implements ReadStore.
func (s *PGReadStore) MarkRead(ctx context.Context, userID uuid.UUID, notificationID string, at time.Time) error {
	if _, err := s.pool.Exec(ctx, upsertReadSQL, userID, notificationID, at); err != nil {
		return fmt.Errorf("notifications: mark read: %w", err)
	}
	return nil
}

// MarkAllRead implements ReadStore using a single batched round trip.
func (s *PGReadStore) MarkAllRead(ctx context.Context, userID uuid.UUID, notificationIDs []string, at time.Time) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, id := range notificationIDs {
		batch.Queue(upsertReadSQL, userID, id, at)
	}
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range notificationIDs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("notifications: mark all read: %w", err)
		}
	}
	return nil
}

// ReadStatus implements ReadStore.
func (s *PGReadStore) ReadStatus(ctx context.Context, userID uuid.UUID, notificationIDs []string) (map[string]bool, error) {
	read := make(map[string]bool, len(notificationIDs))
	if len(notificationIDs) == 0 {
		return read, nil
	}
	rows, err := s.pool.Query(ctx, `SELECT notification_id FROM notification_reads
WHERE user_id = $1 AND is_read = TRUE AND notification_id = ANY($2)`, userID, notificationIDs)
	if err != nil {
		return nil, fmt.Errorf("notifications: read status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("notifications: scan read status: %w", err)
		}
		read[id] = true
	}
	return read, rows.Err()
}
