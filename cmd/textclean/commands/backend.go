package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaning"
	"github.com/aalekhpatel07/text-cleaner/internal/core/services/jobs"
	"github.com/aalekhpatel07/text-cleaner/internal/infrastructure/database"
	"github.com/aalekhpatel07/text-cleaner/internal/infrastructure/database/repositories"
	"github.com/aalekhpatel07/text-cleaner/internal/infrastructure/storage"
	"github.com/aalekhpatel07/text-cleaner/internal/pkg/config"
)

// jobBackend is the persistence shared by serve and worker.
type jobBackend struct {
	db      *database.PostgresDB
	jobs    *repositories.JobRepository
	presets *repositories.PresetRepository
	store   *storage.LocalStorage
}

func openJobBackend(cfg *config.Config, log *slog.Logger) (*jobBackend, error) {
	db, err := database.NewPostgresDB(&cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := storage.NewLocalStorage(&storage.LocalStorageConfig{BasePath: cfg.Storage.BasePath}, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &jobBackend{
		db:      db,
		jobs:    repositories.NewJobRepository(db.DB, log),
		presets: repositories.NewPresetRepository(db.DB, log),
		store:   store,
	}, nil
}

func (b *jobBackend) Close() error {
	return b.db.Close()
}

// service builds the jobs service. enqueuer may be nil for a worker that
// never submits.
func (b *jobBackend) service(cfg *config.Config, svc *cleaning.Service, enqueuer jobs.Enqueuer, log *slog.Logger) *jobs.Service {
	return jobs.NewService(jobConfig(cfg), svc, b.jobs, enqueuer, b.store, log)
}

func jobConfig(cfg *config.Config) jobs.Config {
	return jobs.Config{
		MaxRetries: cfg.Queue.MaxRetries,
		MaxTexts:   cfg.Queue.MaxTexts,
	}
}

// runRetention deletes job artifacts older than retention every interval
// until ctx is done.
func (b *jobBackend) runRetention(ctx context.Context, retention time.Duration, log *slog.Logger) {
	interval := retention / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := b.store.CleanupOldFiles(ctx, retention)
			if err != nil {
				log.Warn("artifact cleanup failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				log.Info("expired job artifacts removed", slog.Int("jobs", n))
			}
		}
	}
}

func requireJobs(cfg *config.Config) error {
	if !cfg.JobsEnabled() {
		return fmt.Errorf("batch jobs need DB_USER and DB_PASSWORD")
	}
	return nil
}
