package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/spacesedan/commentpulse/internal/apperrors"
	"github.com/spacesedan/commentpulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClassifier labels by keyword and can be told to fail specific calls.
type stubClassifier struct {
	calls   int
	batches [][]string
	failOn  map[int]bool // 1-based call numbers
	short   bool
	scores  []float64
}

func (s *stubClassifier) Classify(_ context.Context, texts []string) ([]models.Prediction, error) {
	s.calls++
	s.batches = append(s.batches, append([]string(nil), texts...))
	if s.failOn[s.calls] {
		return nil, errors.New("inference exploded")
	}

	out := make([]models.Prediction, 0, len(texts))
	for i, t := range texts {
		p := models.Prediction{Label: "positive", Score: 0.987654}
		if strings.Contains(t, "bad") {
			p = models.Prediction{Label: "NEGATIVE", Score: 0.5555}
		}
		if s.scores != nil {
			p.Score = s.scores[i%len(s.scores)]
		}
		out = append(out, p)
	}
	if s.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func comments(n int) []string {
	out := make([]string, n)
	for i := range out {
		if i%3 == 0 {
			out[i] = fmt.Sprintf("comment %d is bad", i)
		} else {
			out[i] = fmt.Sprintf("comment %d is good", i)
		}
	}
	return out
}

func TestClassifyPreservesLengthOrderAndText(t *testing.T) {
	for n := 0; n <= 20; n++ {
		for size := 1; size <= 7; size++ {
			t.Run(fmt.Sprintf("n=%d/size=%d", n, size), func(t *testing.T) {
				input := comments(n)
				stub := &stubClassifier{}

				got, err := NewStaticBatcher(stub).Classify(context.Background(), input, size)
				require.NoError(t, err)
				require.Len(t, got, n)
				for i, r := range got {
					assert.Equal(t, input[i], r.Text)
				}
				assert.Equal(t, (n+size-1)/size, stub.calls)
			})
		}
	}
}

func TestClassifyIsolatesFailedBatch(t *testing.T) {
	input := comments(10)
	stub := &stubClassifier{failOn: map[int]bool{2: true}}

	got, err := NewStaticBatcher(stub).Classify(context.Background(), input, 4)
	require.Error(t, err)
	require.Len(t, got, 10)
	assert.True(t, apperrors.Is(err, apperrors.KindClassificationBatch))
	assert.Contains(t, err.Error(), "batch 2")

	for i, r := range got {
		if i >= 4 && i < 8 {
			assert.Equal(t, models.LabelNeutral, r.Label, "index %d", i)
			assert.Equal(t, 0.5, r.Score, "index %d", i)
		} else {
			assert.NotEqual(t, 0.5, r.Score, "index %d", i)
			assert.Contains(t, []string{models.LabelPositive, models.LabelNegative}, r.Label)
		}
		assert.Equal(t, input[i], r.Text)
	}
}

func TestClassifyMismatchedCountDegradesBatch(t *testing.T) {
	stub := &stubClassifier{short: true}

	got, err := NewStaticBatcher(stub).Classify(context.Background(), comments(3), 3)
	require.Error(t, err)
	require.Len(t, got, 3)
	for _, r := range got {
		assert.Equal(t, models.PlaceholderResult(r.Text), r)
	}
}

func TestClassifyScenarioTwoComments(t *testing.T) {
	input := []string{"I love this video!!!", "terrible, worst ever"}
	stub := &fixedClassifier{predictions: []models.Prediction{
		{Label: "POSITIVE", Score: 0.95},
		{Label: "NEGATIVE", Score: 0.87},
	}}

	got, err := NewStaticBatcher(stub).Classify(context.Background(), input, 2)
	require.NoError(t, err)
	assert.Equal(t, []models.SentimentResult{
		{Text: "I love this video!!!", Label: "POSITIVE", Score: 0.95},
		{Text: "terrible, worst ever", Label: "NEGATIVE", Score: 0.87},
	}, got)
	assert.Equal(t, 1, stub.calls)
}

func TestClassifyEmptyInputMakesNoCalls(t *testing.T) {
	stub := &stubClassifier{}
	got, err := NewStaticBatcher(stub).Classify(context.Background(), nil, 32)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, stub.calls)
}

func TestClassifyDoesNotBuildClassifierForEmptyInput(t *testing.T) {
	built := false
	b := NewBatcher(func() (Classifier, error) {
		built = true
		return &stubClassifier{}, nil
	})
	_, err := b.Classify(context.Background(), []string{}, 8)
	require.NoError(t, err)
	assert.False(t, built)
}

func TestClassifyRejectsBadBatchSize(t *testing.T) {
	got, err := NewStaticBatcher(&stubClassifier{}).Classify(context.Background(), comments(3), 0)
	assert.Nil(t, got)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))
}

func TestClassifyRoundsScores(t *testing.T) {
	stub := &stubClassifier{scores: []float64{0.987654, 0.005, 0.333333, 1.2, -0.1}}

	got, err := NewStaticBatcher(stub).Classify(context.Background(), comments(5), 5)
	require.NoError(t, err)
	want := []float64{0.99, 0.01, 0.33, 1, 0}
	for i, r := range got {
		assert.InDelta(t, want[i], r.Score, 1e-9)
		assert.InDelta(t, r.Score, math.Round(r.Score*100)/100, 1e-12)
	}
}

func TestClassifyNormalizesLabels(t *testing.T) {
	got, err := NewStaticBatcher(&stubClassifier{}).Classify(context.Background(), []string{"this is fine"}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.LabelPositive, got[0].Label)
}

func TestClassifyClassifierUnavailable(t *testing.T) {
	b := NewBatcher(func() (Classifier, error) {
		return nil, errors.New("model missing")
	})

	got, err := b.Classify(context.Background(), comments(5), 2)
	require.Error(t, err)
	require.Len(t, got, 5)
	for _, r := range got {
		assert.Equal(t, models.LabelNeutral, r.Label)
	}
}

func TestClassifyReportsProgress(t *testing.T) {
	var seen [][2]int
	b := NewStaticBatcher(&stubClassifier{}).WithProgress(func(done, total int) {
		seen = append(seen, [2]int{done, total})
	})

	_, err := b.Classify(context.Background(), comments(5), 2)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, seen)
}

type fixedClassifier struct {
	calls       int
	predictions []models.Prediction
}

func (f *fixedClassifier) Classify(_ context.Context, texts []string) ([]models.Prediction, error) {
	f.calls++
	return f.predictions[:len(texts)], nil
}
