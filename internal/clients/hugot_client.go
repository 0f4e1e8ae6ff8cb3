package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/spacesedan/hypewatch/internal/models"
)

type labelScore struct {
	Label string
	Score float64
}

// HugotClassifier runs a local ONNX text-classification model (FinBERT or
// any positive/negative/neutral head) through a hugot ONNX Runtime session.
type HugotClassifier struct {
	mu      sync.Mutex
	run     func(texts []string) ([]labelScore, error)
	destroy func() error
}

func NewHugotClassifier(modelPath string) (*HugotClassifier, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("hugot model %q: %w", modelPath, err)
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "hypewatchSentimentPipeline",
		Options: []hugot.TextClassificationOption{
			pipelines.WithSoftmax(),
		},
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("failed to initialize sentiment pipeline: %w", err)
	}

	slog.Info("[HugotClassifier] Pipeline ready", slog.String("model", modelPath))
	return &HugotClassifier{
		run: func(texts []string) ([]labelScore, error) {
			output, err := pipeline.RunPipeline(texts)
			if err != nil {
				return nil, err
			}
			top := make([]labelScore, 0, len(output.ClassificationOutputs))
			for _, candidates := range output.ClassificationOutputs {
				if len(candidates) == 0 {
					return nil, errors.New("hugot: empty classification output")
				}
				best := candidates[0]
				for _, c := range candidates[1:] {
					if c.Score > best.Score {
						best = c
					}
				}
				top = append(top, labelScore{Label: best.Label, Score: float64(best.Score)})
			}
			return top, nil
		},
		destroy: session.Destroy,
	}, nil
}

func (h *HugotClassifier) Classify(ctx context.Context, text string) (models.SentimentVerdict, error) {
	if err := ctx.Err(); err != nil {
		return models.SentimentVerdict{}, err
	}

	h.mu.Lock()
	out, err := h.run([]string{text})
	h.mu.Unlock()
	if err != nil {
		return models.SentimentVerdict{}, fmt.Errorf("hugot inference: %w", err)
	}
	if len(out) == 0 {
		return models.SentimentVerdict{}, errors.New("hugot: no output for input")
	}

	return models.SentimentVerdict{
		Label:      models.SentimentLabel(strings.ToLower(out[0].Label)),
		Confidence: out[0].Score,
	}, nil
}

// Close releases the ONNX session.
func (h *HugotClassifier) Close() error {
	if h.destroy == nil {
		return nil
	}
	return h.destroy()
}
