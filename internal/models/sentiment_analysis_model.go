package models

import "time"

const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
	LabelNeutral  = "NEUTRAL"
)

// PlaceholderScore is assigned to every comment of a batch the classifier failed on.
const PlaceholderScore = 0.5

// Prediction is one label/score pair as returned by a classifier backend.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type SentimentResult struct {
	Text  string  `json:"text"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func PlaceholderResult(text string) SentimentResult {
	return SentimentResult{
		Text:  text,
		Label: LabelNeutral,
		Score: PlaceholderScore,
	}
}

type Summary struct {
	Total    int `json:"total"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Percent returns count as a percentage of the summary total.
func (s Summary) Percent(count int) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(count) / float64(s.Total) * 100
}

type Report struct {
	VideoID          string            `json:"video_id"`
	Video            *VideoInfo        `json:"video,omitempty"`
	Results          []SentimentResult `json:"results"`
	Summary          Summary           `json:"summary"`
	FetchDuration    time.Duration     `json:"fetch_duration"`
	AnalysisDuration time.Duration     `json:"analysis_duration"`
	Failures         []string          `json:"failures,omitempty"`
}

func (r *Report) TotalDuration() time.Duration {
	return r.FetchDuration + r.AnalysisDuration
}
