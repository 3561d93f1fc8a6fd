package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/commentpulse/internal/sentiment"
)

const HEALTHCHECK_TIMER = 15 * time.Second

// WatchClassifier builds the classifier, retrying every interval while it fails
// and marking healthy false meanwhile. Once built, healthy is set true and remote
// backends are handed to MonitorClassifierHealth.
func WatchClassifier(ctx context.Context, build func() (sentiment.Classifier, error), healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}

	for {
		c, err := build()
		if err == nil {
			healthy.Store(true)
			slog.Info("[HealthCheck] Classifier ready")
			if checker, ok := c.(sentiment.HealthChecker); ok {
				MonitorClassifierHealth(ctx, checker, healthy, interval)
			}
			return
		}

		healthy.Store(false)
		slog.Warn("[HealthCheck] Classifier unavailable, retrying",
			slog.Duration("retry_in", interval),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// MonitorClassifierHealth polls checker every interval and stores the result in
// healthy until ctx is cancelled. A zero interval uses HEALTHCHECK_TIMER.
func MonitorClassifierHealth(ctx context.Context, checker sentiment.HealthChecker, healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := checker.HealthCheck(ctx)
			wasHealthy := healthy.Swap(isHealthy)
			if !isHealthy {
				slog.Warn("[HealthCheck] Classifier is unhealthy")
			} else if !wasHealthy {
				slog.Info("[HealthCheck] Classifier recovered")
			}
		}
	}
}
