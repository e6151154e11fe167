package activity

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository writes activity events into activity_logs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert persists a single event.
func (r *Repository) Insert(ctx context.Context, event Event) error {
	if r == nil || r.pool == nil {
		return errors.New("activity: repository not initialised")
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO activity_logs (actor_id, actor_role, action, entity_type, entity_id, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ActorID, event.ActorRole, event.Action, event.EntityType, event.EntityID, event.OccurredAt)
	return err
}

// HandleRecordTask processes TaskTypeRecord tasks on the worker.
func (r *Repository) HandleRecordTask(ctx context.Context, t *asynq.Task) error {
	var event Event
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		return asynq.SkipRetry
	}
	return r.Insert(ctx, event)
}
