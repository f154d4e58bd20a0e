package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aalekhpatel07/text-cleaner/internal/core/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PresetRepository persists user-defined presets.
type PresetRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewPresetRepository creates a new repository instance
func NewPresetRepository(db *gorm.DB, logger *slog.Logger) *PresetRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PresetRepository{
		db:     db,
		logger: logger,
	}
}

// Save inserts or replaces a preset by name.
func (r *PresetRepository) Save(ctx context.Context, preset *domain.StoredPreset) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "aliases", "transformations", "updated_at"}),
		}).
		Create(preset).
		Error
	if err != nil {
		r.logger.Error("failed to save preset",
			slog.String("preset", preset.Name),
			slog.Any("error", err))
		return fmt.Errorf("failed to save preset: %w", err)
	}
	return nil
}

// List returns every stored preset ordered by name.
func (r *PresetRepository) List(ctx context.Context) ([]domain.StoredPreset, error) {
	var presets []domain.StoredPreset
	if err := r.db.WithContext(ctx).Order("name").Find(&presets).Error; err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return presets, nil
}

// Delete removes a preset. Deleting a missing preset is not an error.
func (r *PresetRepository) Delete(ctx context.Context, name string) error {
	if err := r.db.WithContext(ctx).Delete(&domain.StoredPreset{}, "name = ?", name).Error; err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	return nil
}
