package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/aalekhpatel07/text-cleaner/internal/core/domain"
	"github.com/aalekhpatel07/text-cleaner/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupTestDB creates a PostgreSQL testcontainer for testing
func setupTestDB(t *testing.T) *gorm.DB {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")

	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(pgdriver.Open(connStr), &gorm.Config{})
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, db.AutoMigrate(&domain.CleaningJob{}, &domain.StoredPreset{}))
	return db
}

func TestJobRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db, logger.NewNop())
	ctx := context.Background()

	job := &domain.CleaningJob{
		Transformations: domain.StringList{"trim"},
		Signature:       "trim",
		TotalTexts:      2,
	}
	require.NoError(t, repo.Create(ctx, job))
	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, domain.JobStatusQueued, job.Status)

	loaded, err := repo.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StringList{"trim"}, loaded.Transformations)

	loaded.MarkCompleted(2, "out.jsonl", time.Now().UTC())
	require.NoError(t, repo.Update(ctx, loaded))

	again, err := repo.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, again.Status)
	assert.Equal(t, 2, again.ProcessedTexts)

	_, err = repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrJobNotFound)

	recent, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[domain.JobStatusCompleted])
}

func TestPresetRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPresetRepository(db, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.StoredPreset{
		Name:            "tidy",
		Transformations: domain.StringList{"trim"},
	}))
	require.NoError(t, repo.Save(ctx, &domain.StoredPreset{
		Name:            "tidy",
		Aliases:         domain.StringList{"t"},
		Transformations: domain.StringList{"trim", "remove_empty_lines"},
	}))

	presets, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, presets, 1)
	assert.Equal(t, domain.StringList{"trim", "remove_empty_lines"}, presets[0].Transformations)
	assert.Equal(t, domain.StringList{"t"}, presets[0].Aliases)

	require.NoError(t, repo.Delete(ctx, "tidy"))
	require.NoError(t, repo.Delete(ctx, "tidy"))
	presets, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, presets)
}
