package sentiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/spacesedan/hypewatch/internal/models"
)

// Classifier labels one bounded span of text. Implementations should be
// deterministic per input; the aggregator memoizes their verdicts.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.SentimentVerdict, error)
}

// ClassifierFunc adapts a plain function to [Classifier].
type ClassifierFunc func(ctx context.Context, text string) (models.SentimentVerdict, error)

func (f ClassifierFunc) Classify(ctx context.Context, text string) (models.SentimentVerdict, error) {
	return f(ctx, text)
}

// ErrInvalidVerdict marks a verdict with an unsupported label or a
// confidence outside [0,1].
var ErrInvalidVerdict = errors.New("invalid sentiment verdict")

// ClassifierError is a recoverable failure to classify one chunk.
type ClassifierError struct {
	Chunk int
	Err   error
}

func (e *ClassifierError) Error() string {
	return fmt.Sprintf("classify chunk %d: %v", e.Chunk, e.Err)
}

func (e *ClassifierError) Unwrap() error { return e.Err }

// ValidateVerdict normalizes the label and checks the confidence range.
func ValidateVerdict(v models.SentimentVerdict) (models.SentimentVerdict, error) {
	label, ok := models.ParseSentimentLabel(string(v.Label))
	if !ok {
		return models.SentimentVerdict{}, fmt.Errorf("%w: label %q", ErrInvalidVerdict, v.Label)
	}
	if v.Confidence < 0 || v.Confidence > 1 || v.Confidence != v.Confidence {
		return models.SentimentVerdict{}, fmt.Errorf("%w: confidence %v", ErrInvalidVerdict, v.Confidence)
	}
	return models.SentimentVerdict{Label: label, Confidence: v.Confidence}, nil
}
