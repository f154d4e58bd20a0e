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

	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaning"
	"github.com/aalekhpatel07/text-cleaner/internal/infrastructure/metrics"
	"github.com/aalekhpatel07/text-cleaner/internal/infrastructure/queue"
)

func newWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run batch cleaning jobs from the queue",
		Long: `Process clean:batch tasks submitted through the API.

Needs Redis (REDIS_HOST) and Postgres (DB_USER, DB_PASSWORD). Job
artifacts are stored under STORAGE_PATH.`,
		Args: cobra.NoArgs,
		RunE: runWorker,
	}

	flags := cmd.Flags()
	flags.Int("concurrency", 0, "concurrent tasks (default from WORKER_CONCURRENCY)")
	flags.Duration("retention", 0, "delete job artifacts older than this (0 keeps them)")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9091")

	_ = viper.BindPFlag("WORKER_CONCURRENCY", flags.Lookup("concurrency"))

	return cmd
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if err := requireJobs(cfg); err != nil {
		return err
	}
	cfg.LogConfig(log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backend, err := openJobBackend(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	m := metrics.New()
	svc, err := newCleaningService(cfg, log, "job", cleaning.WithRecorder(m))
	if err != nil {
		return err
	}
	jobsSvc := backend.service(cfg, svc, nil, log)

	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsSrv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			log.Info("serving metrics", slog.String("addr", addr))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		defer func() { _ = metricsSrv.Close() }()
	}

	if retention, _ := cmd.Flags().GetDuration("retention"); retention > 0 {
		go backend.runRetention(ctx, retention, log)
	}

	srv := queue.NewAsynqServer(&cfg.Cache, &cfg.Queue, log)
	srv.HandleFunc(queue.TaskTypeCleanBatch, jobsSvc.HandleCleanBatch)
	if err := srv.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	srv.Shutdown()
	return nil
}
