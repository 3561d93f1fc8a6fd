package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spacesedan/commentpulse/config"
	"github.com/spacesedan/commentpulse/internal/clients"
	"github.com/spacesedan/commentpulse/internal/models"
)

const (
	BackendHuggingFace = "huggingface"
	BackendHugot       = "hugot"
	BackendVader       = "vader"
	BackendOpenAI      = "openai"
)

// Classifier labels a batch of texts in one call, returning one prediction per
// text in input order.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]models.Prediction, error)
}

// HealthChecker is implemented by classifiers backed by a remote service.
type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// NewClassifier builds the backend named by cfg.Backend. Building may be slow
// (the hugot backend downloads and loads a model), so callers hold the result in
// a cache.Lazy.
func NewClassifier(ctx context.Context, cfg config.ClassifierConfig) (Classifier, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	slog.Info("[Classifier] Initializing sentiment classifier", slog.String("backend", backend))

	switch backend {
	case BackendHuggingFace, "":
		return NewHuggingFaceClassifier(clients.NewHuggingFaceClient(clients.HuggingFaceOptions{
			Endpoint: cfg.HFEndpoint,
			Token:    cfg.HFToken,
			Timeout:  cfg.HFTimeout,
		})), nil
	case BackendHugot:
		return NewHugotClassifier(cfg.HugotModel, cfg.HugotModelDir)
	case BackendVader:
		return NewVaderClassifier(), nil
	case BackendOpenAI:
		client, err := clients.NewOpenAIClient(clients.OpenAIOptions{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
		})
		if err != nil {
			return nil, err
		}
		return NewLLMClassifier(client), nil
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", cfg.Backend)
	}
}
