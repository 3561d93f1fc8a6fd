package analysis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/commentpulse/internal/apperrors"
	"github.com/spacesedan/commentpulse/internal/cache"
	"github.com/spacesedan/commentpulse/internal/comments"
	"github.com/spacesedan/commentpulse/internal/models"
	"github.com/spacesedan/commentpulse/internal/sentiment"
	"github.com/spacesedan/commentpulse/internal/utils"
)

type Request struct {
	APIKey      string
	VideoURL    string
	MaxComments int
	BatchSize   int
}

// SourceFactory builds a YouTube source for one API key.
type SourceFactory func(apiKey string) (comments.Source, error)

// Analyzer runs fetch, classify and summarize for one video at a time.
type Analyzer struct {
	sources   *cache.Keyed[string, comments.Source]
	batcher   *sentiment.Batcher
	validator *KeyValidator
}

// NewAnalyzer keeps one source per API key for the life of the Analyzer.
// A nil validator skips key validation.
func NewAnalyzer(factory SourceFactory, batcher *sentiment.Batcher, validator *KeyValidator) *Analyzer {
	return &Analyzer{
		sources:   cache.NewKeyed[string, comments.Source](factory),
		batcher:   batcher,
		validator: validator,
	}
}

// WithBatcher returns a copy of a that classifies with b, sharing sources and
// the key validator.
func (a *Analyzer) WithBatcher(b *sentiment.Batcher) *Analyzer {
	cp := *a
	cp.batcher = b
	return &cp
}

// Run returns a Report even when some batches failed; their messages are in
// Report.Failures. Errors are returned only when no report can be produced.
func (a *Analyzer) Run(ctx context.Context, req Request) (*models.Report, error) {
	apiKey := strings.TrimSpace(req.APIKey)
	videoURL := strings.TrimSpace(req.VideoURL)
	if apiKey == "" || videoURL == "" {
		return nil, apperrors.Invalid("analysis.run", "Please provide both API key and video URL.")
	}

	videoID := comments.ExtractVideoID(videoURL)
	if videoID == "" {
		return nil, apperrors.Invalid("analysis.run", "Please provide a valid YouTube video URL.")
	}

	maxComments := ClampMaxComments(req.MaxComments)
	batchSize := ClampBatchSize(req.BatchSize)

	source, err := a.sources.Get(apiKey)
	if err != nil {
		return nil, err
	}

	if a.validator != nil {
		if err := a.validator.Validate(ctx, apiKey, source); err != nil {
			return nil, err
		}
	}

	slog.Info("[Analyzer] Starting analysis",
		slog.String("video_id", videoID),
		slog.Int("max_comments", maxComments),
		slog.Int("batch_size", batchSize))

	fetcher := comments.NewFetcher(source)
	report := &models.Report{VideoID: videoID, Results: []models.SentimentResult{}}

	fetchStart := time.Now()
	info, err := fetcher.FetchVideoInfo(ctx, videoID)
	if err != nil {
		slog.Warn("[Analyzer] Video details unavailable",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
	}
	report.Video = info

	texts, err := fetcher.FetchComments(ctx, videoID, maxComments)
	report.FetchDuration = time.Since(fetchStart)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		slog.Info("[Analyzer] No comments to analyze", slog.String("video_id", videoID))
		return report, nil
	}

	slog.Debug("[Analyzer] Classifying comments",
		slog.Int("comments", len(texts)),
		slog.Int("batches", utils.BatchCount(len(texts), batchSize)))

	analysisStart := time.Now()
	results, err := a.batcher.Classify(ctx, texts, batchSize)
	report.AnalysisDuration = time.Since(analysisStart)
	if results == nil {
		return nil, err
	}
	report.Results = results
	report.Failures = failureMessages(err)
	report.Summary = Summarize(results)

	slog.Info("[Analyzer] Analysis complete",
		slog.String("video_id", videoID),
		slog.Int("comments", report.Summary.Total),
		slog.Int("failed_batches", len(report.Failures)),
		slog.Duration("fetch", report.FetchDuration),
		slog.Duration("analysis", report.AnalysisDuration))

	return report, nil
}

func failureMessages(err error) []string {
	if err == nil {
		return nil
	}

	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, apperrors.UserMessage(e))
	}
	return out
}
