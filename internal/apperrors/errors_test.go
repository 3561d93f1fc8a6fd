package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain error", errors.New("boom"), KindUnknown},
		{"direct", New(KindNotFound, "fetch", nil), KindNotFound},
		{"wrapped", fmt.Errorf("outer: %w", New(KindAuthorization, "fetch", errors.New("403"))), KindAuthorization},
		{"joined", errors.Join(BatchFailed("classify", 2, errors.New("x"))), KindClassificationBatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, "Please provide a valid YouTube video URL.",
		UserMessage(Invalid("analyze", "Please provide a valid YouTube video URL.")))
	assert.Contains(t, UserMessage(New(KindAuthorization, "comments", errors.New("403"))), "quota")
	assert.Equal(t, "Video not found or comments disabled.", UserMessage(New(KindNotFound, "comments", nil)))
	assert.Equal(t, "YouTube API error: server exploded",
		UserMessage(New(KindTransientAPI, "comments", errors.New("server exploded"))))
	assert.Equal(t, "Error processing batch 3: timeout",
		UserMessage(BatchFailed("classify", 3, errors.New("timeout"))))
	assert.Equal(t, "An error occurred: boom", UserMessage(errors.New("boom")))
}

func TestErrorString(t *testing.T) {
	err := BatchFailed("classify", 1, errors.New("timeout"))
	assert.Equal(t, "classify: batch 1: timeout", err.Error())
	assert.True(t, Is(err, KindClassificationBatch))
	assert.False(t, Is(nil, KindClassificationBatch))
	assert.Equal(t, "classification_batch", err.Kind.String())
}
