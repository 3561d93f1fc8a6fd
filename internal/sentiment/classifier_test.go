package sentiment

import (
	"context"
	"testing"

	"github.com/spacesedan/commentpulse/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClassifier(t *testing.T) {
	ctx := context.Background()

	c, err := NewClassifier(ctx, config.ClassifierConfig{Backend: "VADER"})
	require.NoError(t, err)
	assert.IsType(t, &VaderClassifier{}, c)

	c, err = NewClassifier(ctx, config.ClassifierConfig{Backend: "huggingface", HFEndpoint: "http://127.0.0.1:1/model"})
	require.NoError(t, err)
	_, ok := c.(HealthChecker)
	assert.True(t, ok)

	_, err = NewClassifier(ctx, config.ClassifierConfig{Backend: "openai"})
	assert.ErrorContains(t, err, "missing OpenAI API key")

	_, err = NewClassifier(ctx, config.ClassifierConfig{Backend: "tarot"})
	assert.ErrorContains(t, err, `unknown classifier backend "tarot"`)
}
