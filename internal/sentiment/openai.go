package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spacesedan/commentpulse/internal/models"
)

const llmSystemPrompt = `You are a sentiment classifier for YouTube comments.
You receive a JSON array of comments. Reply with a JSON array of the same length,
in the same order, where each element is {"label": "POSITIVE" | "NEGATIVE" | "NEUTRAL", "score": <confidence between 0 and 1>}.
Reply with the JSON array only.`

type completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// LLMClassifier asks a chat model for zero-shot labels.
type LLMClassifier struct {
	client completer
}

func NewLLMClassifier(client completer) *LLMClassifier {
	return &LLMClassifier{client: client}
}

func (l *LLMClassifier) Classify(ctx context.Context, texts []string) ([]models.Prediction, error) {
	payload, err := json.Marshal(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal comments: %w", err)
	}

	content, err := l.client.Complete(ctx, llmSystemPrompt, string(payload))
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	return parseLLMPredictions(content)
}

func parseLLMPredictions(content string) ([]models.Prediction, error) {
	var predictions []models.Prediction
	if err := json.Unmarshal([]byte(cleanLLMResponse(content)), &predictions); err != nil {
		return nil, fmt.Errorf("failed to parse model output: %w", err)
	}
	return predictions, nil
}

// cleanLLMResponse strips markdown code fences models like to wrap JSON in.
func cleanLLMResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
