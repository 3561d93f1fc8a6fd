package monitoring

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/commentpulse/internal/models"
	"github.com/spacesedan/commentpulse/internal/sentiment"
	"github.com/stretchr/testify/assert"
)

type flakyChecker struct {
	healthy atomic.Bool
	calls   atomic.Int32
}

func (f *flakyChecker) HealthCheck(context.Context) bool {
	f.calls.Add(1)
	return f.healthy.Load()
}

func TestMonitorClassifierHealth(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checker := &flakyChecker{}
	var healthy atomic.Bool
	healthy.Store(true)

	done := make(chan struct{})
	go func() {
		MonitorClassifierHealth(ctx, checker, &healthy, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return !healthy.Load() }, time.Second, 5*time.Millisecond)

	checker.healthy.Store(true)
	assert.Eventually(t, healthy.Load, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
	assert.Positive(t, checker.calls.Load())
}

type remoteClassifier struct {
	flakyChecker
}

func (r *remoteClassifier) Classify(_ context.Context, texts []string) ([]models.Prediction, error) {
	return make([]models.Prediction, len(texts)), nil
}

func TestWatchClassifierRecoversAfterFailedBuild(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	remote := &remoteClassifier{}
	remote.healthy.Store(true)

	var builds atomic.Int32
	build := func() (sentiment.Classifier, error) {
		if builds.Add(1) < 3 {
			return nil, errors.New("model download failed")
		}
		return remote, nil
	}

	var healthy atomic.Bool
	healthy.Store(true)
	go WatchClassifier(ctx, build, &healthy, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return builds.Load() >= 3 }, time.Second, time.Millisecond)
	assert.Eventually(t, healthy.Load, time.Second, time.Millisecond)

	// Once built, the backend's own health check takes over.
	remote.healthy.Store(false)
	assert.Eventually(t, func() bool { return !healthy.Load() }, time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 3, builds.Load())
}

func TestWatchClassifierStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var healthy atomic.Bool
	done := make(chan struct{})
	go func() {
		WatchClassifier(ctx, func() (sentiment.Classifier, error) {
			return nil, errors.New("still broken")
		}, &healthy, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return !healthy.Load() }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
