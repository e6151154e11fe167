package activity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// TaskTypeRecord is the asynq task type carrying activity events.
const TaskTypeRecord = "activity:record"

// QueueRecorder enqueues events onto the background queue. Enqueue failures
// are reported to the caller but are expected to be treated as best-effort.
type QueueRecorder struct {
	client *asynq.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewQueueRecorder constructs a QueueRecorder.
func NewQueueRecorder(client *asynq.Client, logger *slog.Logger) *QueueRecorder {
	return &QueueRecorder{client: client, logger: logger, now: time.Now}
}

// Record enqueues the event for persistence by the worker.
func (r *QueueRecorder) Record(ctx context.Context, event Event) error {
	if r == nil || r.client == nil {
		return errors.New("activity: recorder not initialised")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = r.now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = r.client.EnqueueContext(ctx, asynq.NewTask(TaskTypeRecord, payload), asynq.MaxRetry(3))
	return err
}

// NopRecorder discards events. Used in memory mode and tests.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(ctx context.Context, event Event) error { return nil }
