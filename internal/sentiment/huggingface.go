package sentiment

import (
	"context"

	"github.com/spacesedan/commentpulse/internal/clients"
	"github.com/spacesedan/commentpulse/internal/models"
)

type HuggingFaceClassifier struct {
	client *clients.HuggingFaceClient
}

func NewHuggingFaceClassifier(client *clients.HuggingFaceClient) *HuggingFaceClassifier {
	return &HuggingFaceClassifier{client: client}
}

func (h *HuggingFaceClassifier) Classify(ctx context.Context, texts []string) ([]models.Prediction, error) {
	return h.client.GetBatchedSentimentAnalysis(ctx, texts)
}

func (h *HuggingFaceClassifier) HealthCheck(ctx context.Context) bool {
	return h.client.HealthCheck(ctx)
}
