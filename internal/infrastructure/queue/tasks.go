package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task types
const (
	TaskTypeCleanBatch = "clean:batch"
)

// CleanBatchPayload identifies the job a clean:batch task runs.
type CleanBatchPayload struct {
	JobID uuid.UUID `json:"job_id"`
}

// NewCleanBatchTask builds a clean:batch task for jobID.
func NewCleanBatchTask(jobID uuid.UUID, maxRetries int) (*asynq.Task, error) {
	payload, err := json.Marshal(CleanBatchPayload{JobID: jobID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TaskTypeCleanBatch, payload,
		asynq.MaxRetry(maxRetries),
		asynq.Timeout(10*time.Minute),
		asynq.TaskID(jobID.String()),
	), nil
}

// ParseCleanBatchPayload decodes the payload of a clean:batch task.
func ParseCleanBatchPayload(task *asynq.Task) (CleanBatchPayload, error) {
	var p CleanBatchPayload
	if task.Type() != TaskTypeCleanBatch {
		return p, fmt.Errorf("unexpected task type %q", task.Type())
	}
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid payload: %w", err)
	}
	if p.JobID == uuid.Nil {
		return p, fmt.Errorf("invalid payload: missing job_id")
	}
	return p, nil
}
