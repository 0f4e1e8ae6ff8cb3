package clients

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spacesedan/hypewatch/config"
	"github.com/spacesedan/hypewatch/internal/sentiment"
)

// NewClassifier builds the back-end selected by settings.Classifier. The
// returned closer releases back-end resources and is never nil.
func NewClassifier(settings config.Settings) (sentiment.Classifier, io.Closer, error) {
	slog.Info("[Classifier] Initializing sentiment classifier",
		slog.String("backend", settings.Classifier))

	switch settings.Classifier {
	case config.ClassifierVader, "":
		return sentiment.NewVaderClassifier(), nopCloser{}, nil
	case config.ClassifierHuggingFace:
		c, err := NewHuggingFaceClient(settings.HFSentimentEndpoint, settings.HFHealthEndpoint, settings.ClassifierTimeout)
		if err != nil {
			return nil, nil, err
		}
		return c, nopCloser{}, nil
	case config.ClassifierHugot:
		c, err := NewHugotClassifier(settings.HugotModelPath)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	case config.ClassifierOpenAI:
		c, err := NewOpenAIClassifier(settings.OpenAIAPIKey, settings.OpenAIModel, settings.ClassifierTimeout)
		if err != nil {
			return nil, nil, err
		}
		return c, nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown sentiment classifier %q", settings.Classifier)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
