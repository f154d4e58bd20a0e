// Package cleaning resolves requests into cleaner pipelines and runs them,
// with optional result caching and metrics.
package cleaning

import (
	"context"
	"log/slog"
	"time"

	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaner"
	apperrors "github.com/aalekhpatel07/text-cleaner/internal/pkg/errors"
)

// ctxCheckInterval is how many texts CleanBatch processes between
// cancellation checks.
const ctxCheckInterval = 256

// Option configures a Service.
type Option func(*Service)

// WithCache enables the result cache for Clean.
func WithCache(cache ResultCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.metrics = r
		}
	}
}

// Service cleans texts.
type Service struct {
	config  Config
	presets *cleaner.PresetRegistry
	store   PresetStore
	cache   ResultCache
	metrics Recorder
	logger  *slog.Logger
}

// NewService creates a new cleaning service. A nil registry gets the
// built-in presets.
func NewService(config Config, presets *cleaner.PresetRegistry, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if presets == nil {
		presets = cleaner.NewPresetRegistry()
	}
	if config.DefaultPreset == "" {
		config.DefaultPreset = "default"
	}
	if config.Source == "" {
		config.Source = "api"
	}

	s := &Service{
		config:  config,
		presets: presets,
		metrics: nopRecorder{},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Presets returns the preset registry.
func (s *Service) Presets() *cleaner.PresetRegistry {
	return s.presets
}

// Pipeline resolves the transformations or preset of a request.
func (s *Service) Pipeline(transformations []string, preset string) (*cleaner.Pipeline, error) {
	if transformations != nil {
		p, err := cleaner.Build(transformations)
		if err != nil {
			s.metrics.BuildError()
			return nil, apperrors.FromCleanerError(err)
		}
		return p, nil
	}

	if preset == "" {
		preset = s.config.DefaultPreset
	}
	found, err := s.presets.Get(preset)
	if err != nil {
		return nil, apperrors.FromCleanerError(err).WithDetails("preset", preset)
	}
	p, err := cleaner.BuildFromSelection(found.Selection)
	if err != nil {
		s.metrics.BuildError()
		return nil, apperrors.FromCleanerError(err)
	}
	return p, nil
}

// CheckSize rejects the first text over the configured limit.
func (s *Service) CheckSize(texts ...string) error {
	if s.config.MaxTextBytes <= 0 {
		return nil
	}
	for _, text := range texts {
		if len(text) > s.config.MaxTextBytes {
			return apperrors.TextTooLarge(len(text), s.config.MaxTextBytes)
		}
	}
	return nil
}

// Clean runs a single text through the requested pipeline.
func (s *Service) Clean(ctx context.Context, req Request) (*Result, error) {
	if err := s.CheckSize(req.Text); err != nil {
		return nil, err
	}
	p, err := s.Pipeline(req.Transformations, req.Preset)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	signature := p.Signature()
	result := &Result{
		Transformations: p.Names(),
		Signature:       signature,
	}

	if s.cache != nil {
		cleaned, hit, err := s.cache.Get(ctx, signature, req.Text)
		if err != nil {
			s.logger.Warn("result cache lookup failed", slog.Any("error", err))
		}
		s.metrics.CacheRequest(hit)
		if hit {
			result.Text = cleaned
			result.Cached = true
			s.metrics.TextsProcessed(s.config.Source, 1)
			s.metrics.ObserveDuration(time.Since(start))
			return result, nil
		}
	}

	result.Text = p.Apply(req.Text)

	if s.cache != nil {
		if err := s.cache.Set(ctx, signature, req.Text, result.Text); err != nil {
			s.logger.Warn("result cache store failed", slog.Any("error", err))
		}
	}

	elapsed := time.Since(start)
	s.metrics.TextsProcessed(s.config.Source, 1)
	s.metrics.TransformationsApplied(result.Transformations, 1)
	s.metrics.ObserveDuration(elapsed)

	s.logger.Debug("text cleaned",
		slog.String("pipeline", signature),
		slog.Int("input_bytes", len(req.Text)),
		slog.Int("output_bytes", len(result.Text)),
		slog.Duration("elapsed", elapsed))

	return result, nil
}

// CleanBatch runs every text through one pipeline. The result cache is not
// consulted.
func (s *Service) CleanBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	if err := s.CheckSize(req.Texts...); err != nil {
		return nil, err
	}
	p, err := s.Pipeline(req.Transformations, req.Preset)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out[i] = p.Apply(text)
	}

	names := p.Names()
	elapsed := time.Since(start)
	s.metrics.TextsProcessed(s.config.Source, len(out))
	s.metrics.TransformationsApplied(names, len(out))
	s.metrics.ObserveDuration(elapsed)

	s.logger.Info("batch cleaned",
		slog.String("pipeline", p.Signature()),
		slog.Int("texts", len(out)),
		slog.Duration("elapsed", elapsed))

	return &BatchResult{
		Texts:           out,
		Transformations: names,
		Signature:       p.Signature(),
	}, nil
}

// Toggle flips name in the selection described by names and returns the
// resulting names, known ones in catalog order.
func (s *Service) Toggle(names []string, name string) []string {
	return cleaner.NewSelection(names...).Toggle(name).Names()
}
