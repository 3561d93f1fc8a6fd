package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spacesedan/commentpulse/internal/apperrors"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTube caps maxResults for commentThreads.list at 100.
const YOUTUBE_MAX_RESULTS = 100

type YouTubeOptions struct {
	// Endpoint overrides the API base path, e.g. for tests.
	Endpoint          string
	RequestsPerSecond float64
}

type YouTubeClient struct {
	service *youtube.Service
	limiter *rate.Limiter
}

func NewYouTubeClient(ctx context.Context, apiKey string, opts YouTubeOptions) (*YouTubeClient, error) {
	if apiKey == "" {
		return nil, apperrors.Invalid("youtube.new_client", "Please provide both API key and video URL.")
	}

	clientOpts := []option.ClientOption{
		option.WithAPIKey(apiKey),
		option.WithUserAgent(USER_AGENT),
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	slog.Info("[YouTubeClient] Initialized client",
		slog.Float64("requests_per_second", opts.RequestsPerSecond))

	return &YouTubeClient{
		service: service,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// ListCommentThreads returns one page of top-level comment threads ordered by relevance.
func (yc *YouTubeClient) ListCommentThreads(ctx context.Context, videoID string, maxResults int64) ([]*youtube.CommentThread, error) {
	if maxResults > YOUTUBE_MAX_RESULTS {
		maxResults = YOUTUBE_MAX_RESULTS
	}
	if err := yc.limiter.Wait(ctx); err != nil {
		return nil, apperrors.New(apperrors.KindTransientAPI, "youtube.comment_threads", err)
	}

	resp, err := yc.service.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		MaxResults(maxResults).
		TextFormat("plainText").
		Order("relevance").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyAPIError("youtube.comment_threads", err)
	}

	slog.Debug("[YouTubeClient] Fetched comment threads",
		slog.String("video_id", videoID),
		slog.Int("items", len(resp.Items)))

	return resp.Items, nil
}

// GetVideo returns the snippet and statistics of a single video.
func (yc *YouTubeClient) GetVideo(ctx context.Context, videoID string) (*youtube.Video, error) {
	if err := yc.limiter.Wait(ctx); err != nil {
		return nil, apperrors.New(apperrors.KindTransientAPI, "youtube.videos", err)
	}

	resp, err := yc.service.Videos.List([]string{"snippet", "statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyAPIError("youtube.videos", err)
	}

	if len(resp.Items) == 0 || resp.Items[0] == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "youtube.videos",
			fmt.Errorf("no video with id %q", videoID))
	}
	return resp.Items[0], nil
}

func classifyAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return apperrors.New(apperrors.KindTransientAPI, op, err)
	}

	switch apiErr.Code {
	case http.StatusUnauthorized:
		slog.Error("[YouTubeClient] Invalid API key, check credentials", slog.String("op", op))
		return apperrors.New(apperrors.KindAuthorization, op, err)
	case http.StatusForbidden:
		if hasReason(apiErr, "commentsDisabled") {
			slog.Warn("[YouTubeClient] Comments are disabled for this video", slog.String("op", op))
			return apperrors.New(apperrors.KindNotFound, op, err)
		}
		slog.Error("[YouTubeClient] Quota exceeded or API key lacks permissions", slog.String("op", op))
		return apperrors.New(apperrors.KindAuthorization, op, err)
	case http.StatusBadRequest:
		if hasReason(apiErr, "keyInvalid") {
			slog.Error("[YouTubeClient] API key rejected", slog.String("op", op))
			return apperrors.New(apperrors.KindAuthorization, op, err)
		}
	case http.StatusNotFound:
		slog.Warn("[YouTubeClient] Video not found", slog.String("op", op))
		return apperrors.New(apperrors.KindNotFound, op, err)
	}

	slog.Warn("[YouTubeClient] Unexpected API error",
		slog.String("op", op),
		slog.Int("status_code", apiErr.Code),
		slog.String("error", apiErr.Message))
	return apperrors.New(apperrors.KindTransientAPI, op, err)
}

// quotaReasons are 403 reasons that say nothing about whether the key itself works.
var quotaReasons = []string{"quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded"}

// IsQuotaError reports whether err is a YouTube 403 caused by quota or rate limits.
func IsQuotaError(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusForbidden {
		return false
	}
	for _, reason := range quotaReasons {
		if hasReason(apiErr, reason) {
			return true
		}
	}
	return false
}

func hasReason(apiErr *googleapi.Error, reason string) bool {
	for _, item := range apiErr.Errors {
		if item.Reason == reason {
			return true
		}
	}
	return false
}
