package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env        string `envconfig:"APP_ENV" default:"dev"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	ListenAddr string `envconfig:"LISTEN_ADDR" default:"127.0.0.1:8501"`

	YouTube    YouTubeConfig    `envconfig:"YOUTUBE"`
	Classifier ClassifierConfig `envconfig:"CLASSIFIER"`
	Cache      CacheConfig      `envconfig:"CACHE"`
}

type YouTubeConfig struct {
	// APIKey is only a default; the dashboard and CLI let the user supply their own.
	APIKey            string  `envconfig:"API_KEY"`
	RequestsPerSecond float64 `envconfig:"REQUESTS_PER_SECOND" default:"5"`
}

type ClassifierConfig struct {
	Backend string `envconfig:"BACKEND" default:"huggingface"`

	HFEndpoint string        `envconfig:"HF_ENDPOINT"`
	HFToken    string        `envconfig:"HF_TOKEN"`
	HFTimeout  time.Duration `envconfig:"HF_TIMEOUT" default:"60s"`

	HugotModel    string `envconfig:"HUGOT_MODEL"`
	HugotModelDir string `envconfig:"HUGOT_MODEL_DIR" default:"./models"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel  string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
}

type CacheConfig struct {
	// An empty ValkeyAddress selects the in-process store.
	ValkeyAddress    string        `envconfig:"VALKEY_ADDRESS"`
	ValkeyPassword   string        `envconfig:"VALKEY_PASSWORD"`
	ValkeyTLS        bool          `envconfig:"VALKEY_TLS" default:"false"`
	KeyValidationTTL time.Duration `envconfig:"KEY_VALIDATION_TTL" default:"1h"`
}

// Load reads Config from the environment. Call LoadEnv first to pick up .env files.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.YouTube.RequestsPerSecond < 0 {
		return nil, fmt.Errorf("failed to load config: YOUTUBE_REQUESTS_PER_SECOND must not be negative")
	}
	if cfg.Cache.KeyValidationTTL <= 0 {
		return nil, fmt.Errorf("failed to load config: CACHE_KEY_VALIDATION_TTL must be positive")
	}
	return &cfg, nil
}
