package jobs

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/aalekhpatel07/text-cleaner/internal/core/domain"
	"github.com/aalekhpatel07/text-cleaner/internal/infrastructure/storage"
)

// JobRepository persists cleaning jobs.
type JobRepository interface {
	Create(ctx context.Context, job *domain.CleaningJob) error
	Get(ctx context.Context, id uuid.UUID) (*domain.CleaningJob, error)
	Update(ctx context.Context, job *domain.CleaningJob) error
}

// Enqueuer hands tasks to the worker queue.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ArtifactStore keeps job inputs and outputs.
type ArtifactStore interface {
	Save(ctx context.Context, jobID, kind string, texts []string) (*storage.ArtifactMetadata, error)
	Load(ctx context.Context, jobID, kind string) ([]string, error)
}

// Config for the jobs service
type Config struct {
	MaxRetries int // Retries per clean:batch task
	MaxTexts   int // Texts per job, 0 disables the limit
}
