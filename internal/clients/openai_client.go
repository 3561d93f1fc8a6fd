package clients

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	openAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
	defaultOpenAIModel   = string(openai.ChatModelGPT4oMini)
)

type OpenAIOptions struct {
	APIKey string
	Model  string
	// BaseURL overrides the API base, e.g. for an OpenAI compatible gateway.
	BaseURL string
}

type OpenAIClient struct {
	Client *openai.Client
	model  string
}

func NewOpenAIClient(opts OpenAIOptions) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		slog.Error("[OpenAIClient] Missing OpenAI API key")
		return nil, errors.New("[OpenAIClient] missing OpenAI API key")
	}
	if opts.Model == "" {
		opts.Model = defaultOpenAIModel
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: openAIRequestTimeout}),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout",
		slog.Duration("timeout", openAIRequestTimeout),
		slog.String("model", opts.Model))

	return &OpenAIClient{
		Client: openai.NewClient(reqOpts...),
		model:  opts.Model,
	}, nil
}

// Complete sends a system and user message and returns the first choice's content.
func (oc *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	chatCompletion, err := oc.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		}),
		Model:       openai.F(openai.ChatModel(oc.model)),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", err
	}

	if len(chatCompletion.Choices) == 0 || strings.TrimSpace(chatCompletion.Choices[0].Message.Content) == "" {
		return "", errors.New("[OpenAIClient] empty completion")
	}
	return chatCompletion.Choices[0].Message.Content, nil
}
