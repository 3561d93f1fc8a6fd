package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spacesedan/commentpulse/internal/models"
)

const HF_SENTIMENT_ANALYSIS_ENDPOINT = "https://api-inference.huggingface.co/models/distilbert/distilbert-base-uncased-finetuned-sst-2-english"

type HuggingFaceOptions struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
	// InitialBackoff overrides INITIAL_BACKOFF; tests set it to something tiny.
	InitialBackoff time.Duration
}

type HuggingFaceClient struct {
	Client   *http.Client
	endpoint string
	token    string
	backoff  time.Duration
}

func NewHuggingFaceClient(opts HuggingFaceOptions) *HuggingFaceClient {
	if opts.Endpoint == "" {
		opts.Endpoint = HF_SENTIMENT_ANALYSIS_ENDPOINT
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = INITIAL_BACKOFF
	}

	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.Duration("timeout", opts.Timeout),
		slog.String("endpoint", opts.Endpoint))

	return &HuggingFaceClient{
		Client:   &http.Client{Timeout: opts.Timeout},
		endpoint: opts.Endpoint,
		token:    opts.Token,
		backoff:  opts.InitialBackoff,
	}
}

// DoWithRetry sends the request built by newReq, retrying 429 and 5xx responses
// with exponential backoff.
func (h *HuggingFaceClient) DoWithRetry(ctx context.Context, newReq func() (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := h.backoff

	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		req, buildErr := newReq()
		if buildErr != nil {
			return nil, buildErr
		}

		resp, err = h.Client.Do(req)
		if err == nil && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		if resp != nil {
			resp.Body.Close()
		}

		if attempt == MAX_RETRIES-1 {
			break
		}

		slog.Warn("[HuggingFaceClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}

	if err == nil {
		err = fmt.Errorf("giving up: %s", errMsg(nil, resp))
	}
	return nil, err
}

// GetBatchedSentimentAnalysis classifies texts in a single inference call and
// returns the top prediction for each input, in input order.
func (h *HuggingFaceClient) GetBatchedSentimentAnalysis(ctx context.Context, texts []string) ([]models.Prediction, error) {
	slog.Debug("[HuggingFaceClient] Requesting sentiment analysis from inference endpoint",
		slog.Int("inputs", len(texts)))
	start := time.Now()

	var raw json.RawMessage
	if err := h.postJSON(ctx, models.SentimentAnalysisBatchRequest{Inputs: texts}, &raw); err != nil {
		slog.Error("[HuggingFaceClient] Sentiment Analysis request failed",
			slog.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	predictions, err := decodePredictions(raw)
	if err != nil {
		return nil, err
	}

	slog.Debug("[HuggingFaceClient] Sentiment Analysis request successful",
		slog.Duration("elapsed", time.Since(start)))
	return predictions, nil
}

// HealthCheck reports whether the inference endpoint answers without a server error.
func (h *HuggingFaceClient) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint, nil)
	if err != nil {
		return false
	}
	h.setHeaders(req)

	resp, err := h.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode < 500
}

// decodePredictions accepts both the nested shape ([[{label,score},...],...], one
// list of candidate labels per input) and the flat shape ([{label,score},...]).
func decodePredictions(raw json.RawMessage) ([]models.Prediction, error) {
	var nested models.SentimentAnalysisBatchResponse
	if err := json.Unmarshal(raw, &nested); err == nil {
		out := make([]models.Prediction, 0, len(nested))
		for i, candidates := range nested {
			if len(candidates) == 0 {
				return nil, fmt.Errorf("no predictions for input %d", i)
			}
			best := candidates[0]
			for _, c := range candidates[1:] {
				if c.Score > best.Score {
					best = c
				}
			}
			out = append(out, best)
		}
		return out, nil
	}

	var flat []models.Prediction
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return flat, nil
}

func (h *HuggingFaceClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
}

// helper function for posting data to the inference endpoint
func (h *HuggingFaceClient) postJSON(ctx context.Context, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to marshal input",
			slog.String("endpoint", h.endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := h.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		h.setHeaders(req)
		return req, nil
	})
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed request after retries",
			slog.String("endpoint", h.endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to read response",
			slog.String("endpoint", h.endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[HuggingFaceClient] Unexpected status code",
			slog.Int("status_code", resp.StatusCode),
			getPreview(respBody))
		return errors.New(errMsg(nil, resp))
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", h.endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))

		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
