package repositories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aalekhpatel07/text-cleaner/internal/core/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobRepository persists cleaning jobs with GORM.
type JobRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewJobRepository creates a new repository instance
func NewJobRepository(db *gorm.DB, logger *slog.Logger) *JobRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &JobRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new job.
func (r *JobRepository) Create(ctx context.Context, job *domain.CleaningJob) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		r.logger.Error("failed to create job", slog.Any("error", err))
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// Get loads a job by ID. It returns domain.ErrJobNotFound when none exists.
func (r *JobRepository) Get(ctx context.Context, id uuid.UUID) (*domain.CleaningJob, error) {
	var job domain.CleaningJob
	err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		r.logger.Error("failed to load job",
			slog.String("job_id", id.String()),
			slog.Any("error", err))
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &job, nil
}

// Update saves every field of job.
func (r *JobRepository) Update(ctx context.Context, job *domain.CleaningJob) error {
	result := r.db.WithContext(ctx).Save(job)
	if result.Error != nil {
		r.logger.Error("failed to update job",
			slog.String("job_id", job.ID.String()),
			slog.Any("error", result.Error))
		return fmt.Errorf("failed to update job: %w", result.Error)
	}
	return nil
}

// ListRecent returns up to limit jobs, newest first.
func (r *JobRepository) ListRecent(ctx context.Context, limit int) ([]domain.CleaningJob, error) {
	var jobs []domain.CleaningJob
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).
		Error
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return jobs, nil
}

// CountByStatus returns the number of jobs in each status.
func (r *JobRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.CleaningJob{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).
		Error
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
