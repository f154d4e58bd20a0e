package cleaning

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aalekhpatel07/text-cleaner/internal/core/domain"
	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaner"
	apperrors "github.com/aalekhpatel07/text-cleaner/internal/pkg/errors"
)

// PresetStore persists user-defined presets.
type PresetStore interface {
	Save(ctx context.Context, preset *domain.StoredPreset) error
	List(ctx context.Context) ([]domain.StoredPreset, error)
	Delete(ctx context.Context, name string) error
}

// WithPresetStore persists presets added through SavePreset.
func WithPresetStore(store PresetStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

// SavePreset registers a preset and persists it when a store is configured.
// If persisting fails the registry is left as it was.
func (s *Service) SavePreset(ctx context.Context, name, description string, aliases, transformations []string) (cleaner.Preset, error) {
	preset := cleaner.Preset{
		Name:        name,
		Description: description,
		Aliases:     aliases,
		Selection:   cleaner.NewSelection(transformations...),
	}
	previous, existed := s.lookupUserPreset(name)

	if err := s.presets.Register(preset); err != nil {
		switch {
		case errors.Is(err, cleaner.ErrUnknownTransformation):
			s.metrics.BuildError()
			return cleaner.Preset{}, apperrors.FromCleanerError(err)
		case errors.Is(err, cleaner.ErrBuiltinPreset), errors.Is(err, cleaner.ErrPresetConflict):
			return cleaner.Preset{}, apperrors.FromCleanerError(err)
		}
		return cleaner.Preset{}, apperrors.BadRequest(err.Error())
	}

	if s.store != nil {
		stored := &domain.StoredPreset{
			Name:            preset.Name,
			Description:     preset.Description,
			Aliases:         domain.StringList(preset.Aliases),
			Transformations: domain.StringList(preset.Selection.Names()),
		}
		if err := s.store.Save(ctx, stored); err != nil {
			s.rollbackPreset(name, previous, existed)
			return cleaner.Preset{}, apperrors.DatabaseError(err)
		}
	}

	s.logger.Info("preset saved",
		slog.String("preset", preset.Name),
		slog.Any("transformations", preset.Selection.Names()))
	return preset, nil
}

func (s *Service) lookupUserPreset(name string) (cleaner.Preset, bool) {
	p, err := s.presets.Get(name)
	if err != nil || p.Name != name {
		return cleaner.Preset{}, false
	}
	return p, true
}

func (s *Service) rollbackPreset(name string, previous cleaner.Preset, existed bool) {
	var err error
	if existed {
		err = s.presets.Register(previous)
	} else {
		err = s.presets.Unregister(name)
	}
	if err != nil {
		s.logger.Error("failed to roll back preset", slog.String("preset", name), "error", err)
	}
}

// DeletePreset removes a user-defined preset.
func (s *Service) DeletePreset(ctx context.Context, name string) error {
	if err := s.presets.Unregister(name); err != nil {
		return apperrors.FromCleanerError(err)
	}
	if s.store != nil {
		if err := s.store.Delete(ctx, name); err != nil {
			return apperrors.DatabaseError(err)
		}
	}
	s.logger.Info("preset deleted", slog.String("preset", name))
	return nil
}

// RestorePresets registers every stored preset. Presets that no longer
// resolve are skipped with a warning.
func (s *Service) RestorePresets(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, nil
	}
	stored, err := s.store.List(ctx)
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}

	restored := 0
	for _, sp := range stored {
		err := s.presets.Register(cleaner.Preset{
			Name:        sp.Name,
			Description: sp.Description,
			Aliases:     []string(sp.Aliases),
			Selection:   cleaner.NewSelection(sp.Transformations...),
		})
		if err != nil {
			s.logger.Warn("skipping stored preset",
				slog.String("preset", sp.Name),
				slog.Any("error", err))
			continue
		}
		restored++
	}
	return restored, nil
}
