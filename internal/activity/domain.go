// Package activity captures auditable platform events. Handlers emit events
// explicitly after an operation succeeds; persistence happens asynchronously
// in the worker.
package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event describes a single auditable action.
type Event struct {
	ActorID    uuid.UUID `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Recorder accepts events for eventual persistence.
type Recorder interface {
	Record(ctx context.Context, event Event) error
}
