// Package api provides the HTTP API for the text cleaner.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aalekhpatel07/text-cleaner/internal/core/domain"
	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaning"
	"github.com/aalekhpatel07/text-cleaner/internal/pkg/config"
)

// JobService runs cleaning jobs in the background.
type JobService interface {
	Submit(ctx context.Context, req cleaning.BatchRequest) (*domain.CleaningJob, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.CleaningJob, error)
	Results(ctx context.Context, id uuid.UUID) ([]string, error)
}

// HealthChecker reports the state of a dependency.
type HealthChecker interface {
	Health(ctx context.Context) map[string]any
}

// Option configures a Server.
type Option func(*Server)

// WithJobs enables the /v1/jobs endpoints.
func WithJobs(jobs JobService) Option {
	return func(s *Server) {
		s.jobs = jobs
	}
}

// WithMetrics serves h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithHealthCheck adds a dependency to /healthz.
func WithHealthCheck(name string, checker HealthChecker) Option {
	return func(s *Server) {
		s.checks[name] = checker
	}
}

// Server is the HTTP server for the cleaning API.
type Server struct {
	cleaning *cleaning.Service
	jobs     JobService
	metrics  http.Handler
	checks   map[string]HealthChecker
	config   *config.ServerConfig
	validate *validator.Validate
	logger   *slog.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(svc *cleaning.Service, cfg *config.ServerConfig, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cleaning: svc,
		checks:   make(map[string]HealthChecker),
		config:   cfg,
		validate: newValidator(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/transformations", s.handleListTransformations)

		r.Get("/presets", s.handleListPresets)
		r.Post("/presets", s.handleSavePreset)
		r.Delete("/presets/{name}", s.handleDeletePreset)

		r.Post("/clean", s.handleClean)
		r.Post("/clean/batch", s.handleCleanBatch)
		r.Post("/selection/toggle", s.handleToggle)

		r.Post("/jobs", s.handleSubmitJob)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Get("/jobs/{id}/results", s.handleJobResults)
	})

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting server", slog.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}
