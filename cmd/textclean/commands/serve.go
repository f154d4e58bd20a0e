package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aalekhpatel07/text-cleaner/internal/api"
	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaning"
	"github.com/aalekhpatel07/text-cleaner/internal/infrastructure/cache"
	"github.com/aalekhpatel07/text-cleaner/internal/infrastructure/metrics"
	"github.com/aalekhpatel07/text-cleaner/internal/infrastructure/queue"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the cleaning API.

With CACHE_ENABLED=true results are cached in Redis. With DB_USER and
DB_PASSWORD set, presets are persisted in Postgres and /v1/jobs accepts
batch jobs for the worker command to run.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	flags := cmd.Flags()
	flags.String("host", "", "listen address (default from SERVER_HOST)")
	flags.String("port", "", "listen port (default from SERVER_PORT)")
	flags.Bool("no-jobs", false, "disable batch jobs even if a database is configured")

	_ = viper.BindPFlag("SERVER_HOST", flags.Lookup("host"))
	_ = viper.BindPFlag("SERVER_PORT", flags.Lookup("port"))

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	cfg.LogConfig(log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()
	cleanOpts := []cleaning.Option{cleaning.WithRecorder(m)}
	apiOpts := []api.Option{api.WithMetrics(m.Handler())}

	if cfg.Cache.Enabled {
		rc, err := cache.NewRedisCache(&cfg.Cache, log)
		if err != nil {
			log.Warn("result cache disabled", slog.Any("error", err))
		} else {
			defer func() { _ = rc.Close() }()
			cleanOpts = append(cleanOpts, cleaning.WithCache(rc))
			apiOpts = append(apiOpts, api.WithHealthCheck("cache", rc))
		}
	}

	noJobs, _ := cmd.Flags().GetBool("no-jobs")
	var backend *jobBackend
	if cfg.JobsEnabled() && !noJobs {
		backend, err = openJobBackend(cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = backend.Close() }()
		cleanOpts = append(cleanOpts, cleaning.WithPresetStore(backend.presets))
		apiOpts = append(apiOpts, api.WithHealthCheck("database", backend.db))
	}

	svc, err := newCleaningService(cfg, log, "api", cleanOpts...)
	if err != nil {
		return err
	}

	if backend != nil {
		n, err := svc.RestorePresets(ctx)
		if err != nil {
			return err
		}
		log.Info("stored presets restored", slog.Int("count", n))

		client := queue.NewAsynqClient(&cfg.Cache, log)
		defer func() { _ = client.Close() }()
		apiOpts = append(apiOpts, api.WithJobs(backend.service(cfg, svc, client, log)))
	}

	server := api.NewServer(svc, &cfg.Server, log, apiOpts...)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	return server.Stop(shutdownCtx)
}
