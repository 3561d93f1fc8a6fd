package models

// VideoInfo is the coarse metadata shown above the analysis results.
type VideoInfo struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Channel      string `json:"channel"`
	ViewCount    uint64 `json:"view_count"`
	CommentCount uint64 `json:"comment_count"`
}
