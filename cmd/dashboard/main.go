package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/commentpulse/config"
	"github.com/spacesedan/commentpulse/internal/app"
	"github.com/spacesedan/commentpulse/internal/dashboard"
	"github.com/spacesedan/commentpulse/internal/logging"
	"github.com/spacesedan/commentpulse/internal/monitoring"
)

const (
	// analyzeTimeout bounds one POST /analyze.
	analyzeTimeout  = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		logging.InitLogger("info")
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := app.New(ctx, cfg)
	defer a.Close()

	classifierHealthy := &atomic.Bool{}
	classifierHealthy.Store(true)

	go monitoring.WatchClassifier(ctx, a.WarmUp, classifierHealthy, monitoring.HEALTHCHECK_TIMER)

	srv, err := dashboard.NewServer(a.Analyzer, dashboard.Options{
		Addr:           cfg.ListenAddr,
		DefaultAPIKey:  cfg.YouTube.APIKey,
		Healthy:        classifierHealthy,
		AnalyzeTimeout: analyzeTimeout,
	})
	if err != nil {
		slog.Error("[Main] Failed to build dashboard", slog.String("error", err.Error()))
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("[Main] Dashboard stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := srv.Stop(shutdownCtx); err != nil {
			slog.Error("[Main] Graceful shutdown failed", slog.String("error", err.Error()))
		}
	}
}
