package analysis

import (
	"strings"

	"github.com/spacesedan/commentpulse/internal/models"
)

const (
	DefaultMaxComments = 50
	MinMaxComments     = 10
	MaxMaxComments     = 200

	DefaultBatchSize = 32
	MinBatchSize     = 8
	MaxBatchSize     = 64

	// LabelAll disables label filtering.
	LabelAll = "ALL"
)

// Summarize counts labels. Anything that is neither POSITIVE nor NEGATIVE is
// counted as neutral, so the three counts always add up to Total.
func Summarize(results []models.SentimentResult) models.Summary {
	s := models.Summary{Total: len(results)}
	for _, r := range results {
		switch r.Label {
		case models.LabelPositive:
			s.Positive++
		case models.LabelNegative:
			s.Negative++
		}
	}
	s.Neutral = s.Total - s.Positive - s.Negative
	return s
}

// FilterByLabel keeps results whose label equals label, ignoring case.
// An empty label or "ALL" returns results unchanged.
func FilterByLabel(results []models.SentimentResult, label string) []models.SentimentResult {
	label = strings.ToUpper(strings.TrimSpace(label))
	if label == "" || label == LabelAll {
		return results
	}

	out := make([]models.SentimentResult, 0, len(results))
	for _, r := range results {
		if r.Label == label {
			out = append(out, r)
		}
	}
	return out
}

func ClampMaxComments(n int) int {
	return clamp(n, DefaultMaxComments, MinMaxComments, MaxMaxComments)
}

func ClampBatchSize(n int) int {
	return clamp(n, DefaultBatchSize, MinBatchSize, MaxBatchSize)
}

// clamp maps zero to def and anything else into [lo, hi].
func clamp(n, def, lo, hi int) int {
	if n == 0 {
		return def
	}
	return max(lo, min(n, hi))
}
