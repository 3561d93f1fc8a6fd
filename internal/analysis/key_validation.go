package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spacesedan/commentpulse/internal/apperrors"
	"github.com/spacesedan/commentpulse/internal/cache"
	"github.com/spacesedan/commentpulse/internal/clients"
	"github.com/spacesedan/commentpulse/internal/comments"
)

const (
	// ProbeVideoID is a long-lived public video used to test an API key.
	ProbeVideoID = "dQw4w9WgXcQ"

	DefaultKeyValidationTTL = time.Hour

	keyValid   = "valid"
	keyInvalid = "invalid"
)

var ErrInvalidAPIKey = errors.New("YouTube API key was rejected")

// KeyValidator remembers whether an API key works so each key is probed at
// most once per TTL. Only the hash of the key is stored.
type KeyValidator struct {
	store cache.Store
	ttl   time.Duration
}

func NewKeyValidator(store cache.Store, ttl time.Duration) *KeyValidator {
	if ttl <= 0 {
		ttl = DefaultKeyValidationTTL
	}
	return &KeyValidator{store: store, ttl: ttl}
}

// Validate returns an Authorization error if the key is known or found to be
// rejected. Quota errors and any other probe failure let the request through
// uncached.
func (kv *KeyValidator) Validate(ctx context.Context, apiKey string, source comments.Source) error {
	key := cache.Key("apikey", apiKey)

	cached, ok, err := kv.store.Get(ctx, key)
	if err != nil {
		slog.Warn("[KeyValidator] Cache lookup failed, probing key",
			slog.String("error", err.Error()))
	} else if ok {
		if cached == keyInvalid {
			return apperrors.New(apperrors.KindAuthorization, "analysis.validate_key", ErrInvalidAPIKey)
		}
		return nil
	}

	_, probeErr := source.GetVideo(ctx, ProbeVideoID)
	switch {
	case probeErr == nil, apperrors.Is(probeErr, apperrors.KindNotFound):
		kv.remember(ctx, key, keyValid)
		return nil
	case clients.IsQuotaError(probeErr):
		slog.Warn("[KeyValidator] Quota exhausted during key probe, not caching result",
			slog.String("error", probeErr.Error()))
		return nil
	case apperrors.Is(probeErr, apperrors.KindAuthorization):
		kv.remember(ctx, key, keyInvalid)
		return probeErr
	default:
		slog.Warn("[KeyValidator] Key probe failed, not caching result",
			slog.String("error", probeErr.Error()))
		return nil
	}
}

func (kv *KeyValidator) remember(ctx context.Context, key, verdict string) {
	if err := kv.store.Set(ctx, key, verdict, kv.ttl); err != nil {
		slog.Warn("[KeyValidator] Failed to cache key verdict",
			slog.String("verdict", verdict),
			slog.String("error", err.Error()))
	}
}
