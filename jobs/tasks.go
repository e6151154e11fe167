package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeDigest is the task type for the daily activity digest.
	TaskTypeDigest = "notifications:digest"
)

// DigestPayload scopes a digest run to a reporting window end.
type DigestPayload struct {
	RunAt time.Time `json:"run_at"`
}

// NewDigestTask constructs the digest task.
func NewDigestTask(payload DigestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDigest, data), nil
}
