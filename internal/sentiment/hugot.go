//go:build hugot

package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/spacesedan/commentpulse/internal/models"
)

const DefaultHugotModel = "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english"

// HugotClassifier runs a text classification ONNX model in process.
type HugotClassifier struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

// NewHugotClassifier needs the ONNX Runtime and tokenizers native libraries;
// it is only compiled with -tags hugot.
func NewHugotClassifier(model, modelDir string) (Classifier, error) {
	if model == "" {
		model = DefaultHugotModel
	}
	if modelDir == "" {
		modelDir = "./models"
	}

	modelPath := filepath.Join(modelDir, strings.ReplaceAll(model, "/", "_"))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create model directory: %w", err)
		}

		slog.Info("[HugotClassifier] Model not found, downloading...", slog.String("model", model))
		modelPath, err = hugot.DownloadModel(model, modelDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to download model %s: %w", model, err)
		}
		slog.Info("[HugotClassifier] Model downloaded successfully", slog.String("path", modelPath))
	} else {
		slog.Info("[HugotClassifier] Using existing model", slog.String("path", modelPath))
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "commentSentimentPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("failed to initialize sentiment pipeline: %w", err)
	}

	return &HugotClassifier{session: session, pipeline: pipeline}, nil
}

func (h *HugotClassifier) Classify(_ context.Context, texts []string) ([]models.Prediction, error) {
	output, err := h.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, err
	}

	out := make([]models.Prediction, 0, len(output.ClassificationOutputs))
	for i, candidates := range output.ClassificationOutputs {
		if len(candidates) == 0 {
			return nil, fmt.Errorf("no prediction for input %d", i)
		}
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.Score > best.Score {
				best = c
			}
		}
		out = append(out, models.Prediction{Label: best.Label, Score: float64(best.Score)})
	}
	return out, nil
}

func (h *HugotClassifier) Close() error {
	return h.session.Destroy()
}
