package analysis

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/spacesedan/commentpulse/internal/apperrors"
	"github.com/spacesedan/commentpulse/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func (failingStore) Set(context.Context, string, string, time.Duration) error {
	return errors.New("connection refused")
}

func TestValidateCachesValidKey(t *testing.T) {
	yt := &fakeYouTube{}
	kv := NewKeyValidator(cache.NewMemoryStore(), time.Hour)

	for range 3 {
		require.NoError(t, kv.Validate(context.Background(), "good", yt))
	}
	assert.EqualValues(t, 1, yt.probeCalls.Load())
}

func TestValidateDoesNotCacheTransientErrors(t *testing.T) {
	yt := &fakeYouTube{probeErr: apperrors.New(apperrors.KindTransientAPI, "youtube.videos", errors.New("backend error"))}
	kv := NewKeyValidator(cache.NewMemoryStore(), time.Hour)

	require.NoError(t, kv.Validate(context.Background(), "key", yt))
	require.NoError(t, kv.Validate(context.Background(), "key", yt))
	assert.EqualValues(t, 2, yt.probeCalls.Load())
}

func TestValidateDoesNotCacheQuotaErrors(t *testing.T) {
	quota := &googleapi.Error{
		Code:   http.StatusForbidden,
		Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}},
	}
	yt := &fakeYouTube{probeErr: apperrors.New(apperrors.KindAuthorization, "youtube.videos", quota)}
	kv := NewKeyValidator(cache.NewMemoryStore(), time.Hour)

	require.NoError(t, kv.Validate(context.Background(), "key", yt))

	yt.probeErr = nil
	require.NoError(t, kv.Validate(context.Background(), "key", yt))
	assert.EqualValues(t, 2, yt.probeCalls.Load())
}

func TestValidateCachesRejectedKey(t *testing.T) {
	forbidden := &googleapi.Error{
		Code:   http.StatusBadRequest,
		Errors: []googleapi.ErrorItem{{Reason: "keyInvalid"}},
	}
	yt := &fakeYouTube{probeErr: apperrors.New(apperrors.KindAuthorization, "youtube.videos", forbidden)}
	kv := NewKeyValidator(cache.NewMemoryStore(), time.Hour)

	for range 2 {
		err := kv.Validate(context.Background(), "key", yt)
		assert.True(t, apperrors.Is(err, apperrors.KindAuthorization))
	}
	assert.EqualValues(t, 1, yt.probeCalls.Load())
}

func TestValidateTreatsNotFoundProbeAsValid(t *testing.T) {
	yt := &fakeYouTube{probeErr: apperrors.New(apperrors.KindNotFound, "youtube.videos", nil)}
	kv := NewKeyValidator(cache.NewMemoryStore(), time.Hour)
	assert.NoError(t, kv.Validate(context.Background(), "key", yt))
}

func TestValidateSurvivesBrokenStore(t *testing.T) {
	yt := &fakeYouTube{}
	kv := NewKeyValidator(failingStore{}, time.Hour)
	assert.NoError(t, kv.Validate(context.Background(), "key", yt))

	yt.probeErr = apperrors.New(apperrors.KindAuthorization, "youtube.videos", errors.New("forbidden"))
	assert.True(t, apperrors.Is(kv.Validate(context.Background(), "key", yt), apperrors.KindAuthorization))
}
