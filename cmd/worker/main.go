package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	"github.com/felixgeelhaar/digibank/internal/app"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/digibank/pkg/config"
	"github.com/felixgeelhaar/digibank/pkg/observability"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		observability.NewLogger(observability.DefaultLogConfig()).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version))
	logger.Info("starting digibank worker", "local_mode", cfg.LocalMode)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	processor := container.OutboxProcessor
	container.Health.Register("outbox_processor", observability.OutboxProcessorChecker(processor.IsRunning))

	consumer, err := container.NewConsumer(eventbus.DefaultQueueName)
	if err != nil {
		logger.Error("failed to create event consumer", "error", err)
		os.Exit(1)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("event consumer stopped", "error", err)
			cancel()
		}
	}()

	processor.Start(ctx)

	go runEvery(ctx, cfg.OutboxCleanupInterval, func() {
		deleted, err := processor.Cleanup(ctx, cfg.OutboxRetention())
		if err != nil {
			logger.Error("outbox cleanup failed", "error", err)
			return
		}
		if deleted > 0 {
			logger.Info("outbox cleanup completed", "deleted", deleted, "retention_days", cfg.OutboxRetentionDays)
		}
	})

	go runEvery(ctx, cfg.OutboxStatsInterval, func() {
		stats := processor.Stats()
		logger.Info("outbox stats",
			"running", stats.Running,
			"published", stats.Published,
			"failed", stats.Failed,
			"dead_lettered", stats.DeadLettered,
			"lag_seconds", stats.LagSeconds,
			"last_processed_at", stats.LastProcessedAt,
			"last_error_at", stats.LastErrorAt,
			"last_error", stats.LastError,
		)
	})

	metricsHandler := observability.Handler(container.Registry)

	if cfg.WorkerHealthAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/healthz", observability.LivenessHandler())
		mux.Handle("/readyz", observability.ReadinessHandler(container.Health))
		mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(processor.Stats())
		})
		if cfg.MetricsAddr == "" {
			mux.Handle("/metrics", metricsHandler)
		}
		serve(ctx, logger, "health", cfg.WorkerHealthAddr, mux)
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsHandler)
		serve(ctx, logger, "metrics", cfg.MetricsAddr, mux)
	}

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down worker")

	processor.Stop()
	if err := consumer.Close(); err != nil {
		logger.Warn("error closing event consumer", "error", err)
	}
	wg.Wait()

	logger.Info("worker stopped")
}

// runEvery calls fn on every tick until ctx is done.
func runEvery(ctx context.Context, interval time.Duration, fn func()) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// serve runs an HTTP server in the background and shuts it down with ctx.
func serve(ctx context.Context, logger *slog.Logger, name, addr string, handler http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(name+" server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(name+" server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn(name+" server shutdown error", "error", err)
		}
	}()
}
