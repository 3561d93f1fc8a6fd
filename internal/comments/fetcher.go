package comments

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spacesedan/commentpulse/internal/apperrors"
	"github.com/spacesedan/commentpulse/internal/clients"
	"github.com/spacesedan/commentpulse/internal/models"
	"google.golang.org/api/youtube/v3"
)

// Comments whose trimmed text is this short or shorter are treated as noise.
const MinCommentLength = 5

// Source is the part of the YouTube API the fetcher needs.
// *clients.YouTubeClient satisfies it.
type Source interface {
	ListCommentThreads(ctx context.Context, videoID string, maxResults int64) ([]*youtube.CommentThread, error)
	GetVideo(ctx context.Context, videoID string) (*youtube.Video, error)
}

var _ Source = (*clients.YouTubeClient)(nil)

type Fetcher struct {
	source Source
}

func NewFetcher(source Source) *Fetcher {
	return &Fetcher{source: source}
}

// FetchComments returns up to maxResults top-level comment texts in relevance order.
// A nil error with an empty slice means the video has no usable comments.
func (f *Fetcher) FetchComments(ctx context.Context, videoID string, maxResults int) ([]string, error) {
	if maxResults <= 0 {
		return nil, apperrors.Invalid("comments.fetch", "maximum comment count must be positive")
	}

	requested := maxResults
	if requested > clients.YOUTUBE_MAX_RESULTS {
		requested = clients.YOUTUBE_MAX_RESULTS
	}

	threads, err := f.source.ListCommentThreads(ctx, videoID, int64(requested))
	if err != nil {
		slog.Error("[CommentFetcher] Failed to fetch comments",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
		return nil, err
	}

	texts := make([]string, 0, len(threads))
	skipped := 0
	for _, thread := range threads {
		text, ok := displayText(thread)
		if !ok {
			skipped++
			continue
		}
		if len(strings.TrimSpace(text)) <= MinCommentLength {
			continue
		}
		texts = append(texts, text)
	}

	if skipped > 0 {
		slog.Debug("[CommentFetcher] Skipped malformed comment threads",
			slog.String("video_id", videoID),
			slog.Int("skipped", skipped))
	}

	if len(texts) > maxResults {
		texts = texts[:maxResults]
	}

	slog.Info("[CommentFetcher] Fetched comments",
		slog.String("video_id", videoID),
		slog.Int("returned", len(threads)),
		slog.Int("kept", len(texts)))
	return texts, nil
}

// FetchCommentsOrEmpty logs any failure and returns an empty slice instead,
// for callers that do not distinguish "no comments" from "fetch failed".
func (f *Fetcher) FetchCommentsOrEmpty(ctx context.Context, videoID string, maxResults int) []string {
	texts, err := f.FetchComments(ctx, videoID, maxResults)
	if err != nil {
		slog.Warn("[CommentFetcher] Returning no comments after failure",
			slog.String("message", apperrors.UserMessage(err)))
		return []string{}
	}
	return texts
}

// FetchVideoInfo returns the title, channel and counters of a video.
func (f *Fetcher) FetchVideoInfo(ctx context.Context, videoID string) (*models.VideoInfo, error) {
	video, err := f.source.GetVideo(ctx, videoID)
	if err != nil {
		slog.Error("[CommentFetcher] Failed to fetch video info",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
		return nil, err
	}
	if video == nil || video.Snippet == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "comments.video_info", nil)
	}

	info := &models.VideoInfo{
		ID:      videoID,
		Title:   video.Snippet.Title,
		Channel: video.Snippet.ChannelTitle,
	}
	if video.Statistics != nil {
		info.ViewCount = video.Statistics.ViewCount
		info.CommentCount = video.Statistics.CommentCount
	}
	return info, nil
}

func displayText(thread *youtube.CommentThread) (string, bool) {
	if thread == nil ||
		thread.Snippet == nil ||
		thread.Snippet.TopLevelComment == nil ||
		thread.Snippet.TopLevelComment.Snippet == nil {
		return "", false
	}
	return thread.Snippet.TopLevelComment.Snippet.TextDisplay, true
}
