package models

// SentimentAnalysisBatchRequest is the text-classification payload of the
// inference endpoint; one call carries a whole batch.
type SentimentAnalysisBatchRequest struct {
	Inputs []string `json:"inputs"`
}

// SentimentAnalysisBatchResponse holds the candidate labels of each input, in
// input order. Some deployments return a flat []Prediction instead.
type SentimentAnalysisBatchResponse [][]Prediction
