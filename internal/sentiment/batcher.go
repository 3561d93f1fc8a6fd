package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/spacesedan/commentpulse/internal/apperrors"
	"github.com/spacesedan/commentpulse/internal/models"
	"github.com/spacesedan/commentpulse/internal/utils"
)

// Batcher classifies comments in fixed-size batches, one classifier call per batch.
type Batcher struct {
	classifier func() (Classifier, error)
	onBatch    func(done, total int)
}

// NewBatcher takes a provider so the classifier can be built lazily on first use,
// typically cache.Lazy[Classifier].Get.
func NewBatcher(provider func() (Classifier, error)) *Batcher {
	return &Batcher{classifier: provider}
}

func NewStaticBatcher(c Classifier) *Batcher {
	return NewBatcher(func() (Classifier, error) { return c, nil })
}

// WithProgress returns a copy of b that calls fn after every batch.
func (b *Batcher) WithProgress(fn func(done, total int)) *Batcher {
	cp := *b
	cp.onBatch = fn
	return &cp
}

// Classify returns exactly one result per comment, in input order. A batch the
// classifier fails on is filled with NEUTRAL/0.5 placeholders and reported in the
// returned error; results are still complete in that case.
func (b *Batcher) Classify(ctx context.Context, comments []string, batchSize int) ([]models.SentimentResult, error) {
	if batchSize < 1 {
		return nil, apperrors.Invalid("sentiment.classify", "batch size must be a positive integer")
	}

	results := make([]models.SentimentResult, 0, len(comments))
	if len(comments) == 0 {
		return results, nil
	}

	batches := utils.Chunk(comments, batchSize)
	start := time.Now()

	classifier, classifierErr := b.classifier()
	if classifierErr != nil {
		slog.Error("[SentimentBatcher] Classifier unavailable, using placeholders",
			slog.String("error", classifierErr.Error()))
	}

	var failures []error
	for i, batch := range batches {
		batchNum := i + 1

		var batchResults []models.SentimentResult
		var batchErr error
		if classifierErr != nil {
			batchErr = classifierErr
		} else {
			batchResults, batchErr = classifyBatch(ctx, classifier, batch)
		}

		if batchErr != nil {
			slog.Error("[SentimentBatcher] Error processing batch",
				slog.Int("batch", batchNum),
				slog.Int("batch_size", len(batch)),
				slog.String("error", batchErr.Error()))
			failures = append(failures, apperrors.BatchFailed("sentiment.classify", batchNum, batchErr))
			batchResults = placeholders(batch)
		}

		results = append(results, batchResults...)
		if b.onBatch != nil {
			b.onBatch(batchNum, len(batches))
		}
	}

	slog.Info("[SentimentBatcher] Classified comments",
		slog.Int("comments", len(comments)),
		slog.Int("batches", len(batches)),
		slog.Int("failed_batches", len(failures)),
		slog.Duration("elapsed", time.Since(start)))

	return results, errors.Join(failures...)
}

func classifyBatch(ctx context.Context, classifier Classifier, batch []string) ([]models.SentimentResult, error) {
	predictions, err := classifier.Classify(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(predictions) != len(batch) {
		return nil, fmt.Errorf("classifier returned %d predictions for %d comments", len(predictions), len(batch))
	}

	out := make([]models.SentimentResult, len(batch))
	for i, p := range predictions {
		out[i] = models.SentimentResult{
			Text:  batch[i],
			Label: NormalizeLabel(p.Label),
			Score: RoundScore(p.Score),
		}
	}
	return out, nil
}

func placeholders(batch []string) []models.SentimentResult {
	out := make([]models.SentimentResult, len(batch))
	for i, text := range batch {
		out[i] = models.PlaceholderResult(text)
	}
	return out
}

func NormalizeLabel(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

// RoundScore clamps score into [0,1] and rounds it to two decimals.
func RoundScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return math.Round(score*100) / 100
}
