// Package jobs runs batches of texts through the cleaner in the background.
// Submit persists the inputs and enqueues a clean:batch task; a worker runs
// HandleCleanBatch for it.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/aalekhpatel07/text-cleaner/internal/core/domain"
	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaning"
	"github.com/aalekhpatel07/text-cleaner/internal/infrastructure/queue"
	"github.com/aalekhpatel07/text-cleaner/internal/infrastructure/storage"
	apperrors "github.com/aalekhpatel07/text-cleaner/internal/pkg/errors"
)

// Service manages cleaning jobs.
type Service struct {
	config  Config
	cleaner *cleaning.Service
	repo    JobRepository
	queue   Enqueuer
	store   ArtifactStore
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a new jobs service
func NewService(config Config, cleaner *cleaning.Service, repo JobRepository, enqueuer Enqueuer, store ArtifactStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		config:  config,
		cleaner: cleaner,
		repo:    repo,
		queue:   enqueuer,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// Submit validates the request, stores its texts and enqueues the job.
// The job records the resolved transformation names, so later preset
// changes do not affect it.
func (s *Service) Submit(ctx context.Context, req cleaning.BatchRequest) (*domain.CleaningJob, error) {
	if len(req.Texts) == 0 {
		return nil, apperrors.BadRequest("at least one text is required")
	}
	if s.config.MaxTexts > 0 && len(req.Texts) > s.config.MaxTexts {
		return nil, apperrors.BadRequest(fmt.Sprintf("a job holds at most %d texts", s.config.MaxTexts)).
			WithDetails("texts", len(req.Texts))
	}
	if err := s.cleaner.CheckSize(req.Texts...); err != nil {
		return nil, err
	}
	p, err := s.cleaner.Pipeline(req.Transformations, req.Preset)
	if err != nil {
		return nil, err
	}

	job := &domain.CleaningJob{
		ID:              uuid.New(),
		Status:          domain.JobStatusQueued,
		Transformations: domain.StringList(p.Names()),
		Preset:          req.Preset,
		Signature:       p.Signature(),
		TotalTexts:      len(req.Texts),
	}

	meta, err := s.store.Save(ctx, job.ID.String(), storage.KindInput, req.Texts)
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to store job input")
	}
	job.InputPath = meta.Path

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	task, err := queue.NewCleanBatchTask(job.ID, s.config.MaxRetries)
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to build task")
	}
	if _, err := s.queue.EnqueueContext(ctx, task); err != nil {
		job.MarkFailed(fmt.Errorf("enqueue: %w", err), s.now())
		if uerr := s.repo.Update(ctx, job); uerr != nil {
			s.logger.Error("failed to mark job failed",
				slog.String("job_id", job.ID.String()),
				slog.Any("error", uerr))
		}
		return nil, apperrors.QueueError(err)
	}

	s.logger.Info("job submitted",
		slog.String("job_id", job.ID.String()),
		slog.Int("texts", job.TotalTexts),
		slog.String("pipeline", job.Signature))

	return job, nil
}

// HandleCleanBatch processes a clean:batch task. Malformed payloads and
// missing jobs are not retried.
func (s *Service) HandleCleanBatch(ctx context.Context, task *asynq.Task) error {
	payload, err := queue.ParseCleanBatchPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	job, err := s.repo.Get(ctx, payload.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return fmt.Errorf("job %s: %w", payload.JobID, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to load job: %w", err)
	}
	if job.Status == domain.JobStatusCompleted {
		s.logger.Info("job already completed", slog.String("job_id", job.ID.String()))
		return nil
	}

	logger := s.logger.With(slog.String("job_id", job.ID.String()))
	job.MarkRunning(s.now())
	if err := s.repo.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to mark job running: %w", err)
	}

	if err := s.run(ctx, job); err != nil {
		logger.Error("job failed", slog.Any("error", err))
		job.MarkFailed(err, s.now())
		if uerr := s.repo.Update(ctx, job); uerr != nil {
			logger.Error("failed to mark job failed", slog.Any("error", uerr))
		}
		return err
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}
	logger.Info("job completed", slog.Int("texts", job.ProcessedTexts))
	return nil
}

func (s *Service) run(ctx context.Context, job *domain.CleaningJob) error {
	texts, err := s.store.Load(ctx, job.ID.String(), storage.KindInput)
	if err != nil {
		return fmt.Errorf("failed to load input: %w", err)
	}

	names := []string(job.Transformations)
	if names == nil {
		names = []string{}
	}
	res, err := s.cleaner.CleanBatch(ctx, cleaning.BatchRequest{
		Texts:           texts,
		Transformations: names,
	})
	if err != nil {
		return err
	}

	meta, err := s.store.Save(ctx, job.ID.String(), storage.KindOutput, res.Texts)
	if err != nil {
		return fmt.Errorf("failed to store output: %w", err)
	}
	job.MarkCompleted(len(res.Texts), meta.Path, s.now())
	return nil
}

// Get returns a job by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.CleaningJob, error) {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return nil, apperrors.JobNotFound(id.String())
		}
		return nil, apperrors.DatabaseError(err)
	}
	return job, nil
}

// Results returns the cleaned texts of a completed job, in input order.
func (s *Service) Results(ctx context.Context, id uuid.UUID) ([]string, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusCompleted {
		return nil, apperrors.JobNotReady(id.String(), job.Status)
	}

	texts, err := s.store.Load(ctx, id.String(), storage.KindOutput)
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to load job output")
	}
	if texts == nil {
		texts = []string{}
	}
	return texts, nil
}
