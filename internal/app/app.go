// Package app wires configuration into a ready Analyzer for the binaries.
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/spacesedan/commentpulse/config"
	"github.com/spacesedan/commentpulse/internal/analysis"
	"github.com/spacesedan/commentpulse/internal/cache"
	"github.com/spacesedan/commentpulse/internal/clients"
	"github.com/spacesedan/commentpulse/internal/comments"
	"github.com/spacesedan/commentpulse/internal/sentiment"
)

type App struct {
	Config     *config.Config
	Analyzer   *analysis.Analyzer
	Classifier *cache.Lazy[sentiment.Classifier]
	Store      cache.Store

	closeStore func()
}

// New builds the analyzer. The classifier itself is built on first use.
func New(ctx context.Context, cfg *config.Config) *App {
	store, closeStore := newStore(cfg.Cache)

	classifier := cache.NewLazy(func() (sentiment.Classifier, error) {
		return sentiment.NewClassifier(ctx, cfg.Classifier)
	})

	sources := func(apiKey string) (comments.Source, error) {
		return clients.NewYouTubeClient(ctx, apiKey, clients.YouTubeOptions{
			RequestsPerSecond: cfg.YouTube.RequestsPerSecond,
		})
	}

	analyzer := analysis.NewAnalyzer(
		sources,
		sentiment.NewBatcher(classifier.Get),
		analysis.NewKeyValidator(store, cfg.Cache.KeyValidationTTL),
	)

	return &App{
		Config:     cfg,
		Analyzer:   analyzer,
		Classifier: classifier,
		Store:      store,
		closeStore: closeStore,
	}
}

// newStore prefers Valkey when configured and falls back to memory if it is unreachable.
func newStore(cfg config.CacheConfig) (cache.Store, func()) {
	if cfg.ValkeyAddress == "" {
		return cache.NewMemoryStore(), func() {}
	}

	vc, err := clients.NewValkeyClient(clients.ValkeyOptions{
		Address:  cfg.ValkeyAddress,
		Password: cfg.ValkeyPassword,
		UseTLS:   cfg.ValkeyTLS,
	})
	if err != nil {
		slog.Warn("[App] Valkey unavailable, using in-memory key cache",
			slog.String("address", cfg.ValkeyAddress),
			slog.String("error", err.Error()))
		return cache.NewMemoryStore(), func() {}
	}
	return vc, vc.Close
}

// WarmUp builds the classifier ahead of the first request.
func (a *App) WarmUp() (sentiment.Classifier, error) {
	c, err := a.Classifier.Get()
	if err != nil {
		slog.Error("[App] Classifier warm-up failed", slog.String("error", err.Error()))
		return nil, err
	}
	return c, nil
}

func (a *App) Close() {
	if c, ok := a.Classifier.Loaded(); ok {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("[App] Failed to release classifier", slog.String("error", err.Error()))
			}
		}
	}
	a.closeStore()
}
