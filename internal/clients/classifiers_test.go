package clients

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/openai/openai-go"
	"github.com/spacesedan/hypewatch/config"
	"github.com/spacesedan/hypewatch/internal/models"
	"github.com/spacesedan/hypewatch/internal/sentiment"
)

func TestParseOpenAIVerdict(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		want    models.SentimentVerdict
		wantErr bool
	}{
		{
			name:    "plain json",
			content: `{"label": "positive", "confidence": 0.82}`,
			want:    models.SentimentVerdict{Label: models.SentimentPositive, Confidence: 0.82},
		},
		{
			name:    "fenced json",
			content: "```json\n{\"label\": \"Negative\", \"confidence\": 0.7}\n```",
			want:    models.SentimentVerdict{Label: models.SentimentNegative, Confidence: 0.7},
		},
		{
			name:    "leading prose",
			content: `Sure! {"label":"neutral","confidence":0.5}`,
			want:    models.SentimentVerdict{Label: models.SentimentNeutral, Confidence: 0.5},
		},
		{name: "empty", content: "  ", wantErr: true},
		{name: "not json", content: "positive", wantErr: true},
		{name: "missing confidence", content: `{"label":"positive"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseOpenAIVerdict(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseOpenAIVerdict(%q) = %+v, want error", tt.content, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOpenAIVerdict: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("verdict mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOpenAIClassifier_Classify(t *testing.T) {
	t.Parallel()
	o := &OpenAIClassifier{
		model: "gpt-4o-mini",
		complete: func(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
			return `{"label":"positive","confidence":0.9}`, nil
		},
	}
	v, err := o.Classify(context.Background(), "to the moon")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if v.Label != models.SentimentPositive || v.Confidence != 0.9 {
		t.Errorf("verdict = %+v", v)
	}

	o.complete = func(context.Context, openai.ChatCompletionNewParams) (string, error) {
		return "", errors.New("rate limited")
	}
	if _, err := o.Classify(context.Background(), "to the moon"); err == nil {
		t.Error("expected completion error to surface")
	}
}

func TestHugotClassifier_PicksReportedLabel(t *testing.T) {
	t.Parallel()
	h := &HugotClassifier{
		run: func(texts []string) ([]labelScore, error) {
			return []labelScore{{Label: "Negative", Score: 0.77}}, nil
		},
	}
	v, err := h.Classify(context.Background(), "we lost everything")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if v.Label != models.SentimentNegative || v.Confidence != 0.77 {
		t.Errorf("verdict = %+v", v)
	}
	if err := h.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := h.Classify(ctx, "late"); !errors.Is(err, context.Canceled) {
		t.Errorf("Classify on canceled ctx = %v, want context.Canceled", err)
	}
}

func TestNewHugotClassifier_MissingModel(t *testing.T) {
	t.Parallel()
	_, err := NewHugotClassifier(filepath.Join(t.TempDir(), "finbert"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("NewHugotClassifier = %v, want fs.ErrNotExist", err)
	}
}

func TestNewClassifier(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		settings config.Settings
		wantErr  bool
	}{
		{name: "vader", settings: config.Settings{Classifier: config.ClassifierVader}},
		{name: "default", settings: config.Settings{}},
		{name: "huggingface", settings: config.Settings{Classifier: config.ClassifierHuggingFace, HFSentimentEndpoint: "http://localhost:1/analyze"}},
		{name: "huggingface without endpoint", settings: config.Settings{Classifier: config.ClassifierHuggingFace}, wantErr: true},
		{name: "openai without key", settings: config.Settings{Classifier: config.ClassifierOpenAI}, wantErr: true},
		{name: "hugot without model", settings: config.Settings{Classifier: config.ClassifierHugot, HugotModelPath: "does/not/exist"}, wantErr: true},
		{name: "unknown", settings: config.Settings{Classifier: "magic8ball"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, closer, err := NewClassifier(tt.settings)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClassifier: %v", err)
			}
			if c == nil || closer == nil {
				t.Fatal("expected classifier and closer")
			}
			if _, err := sentiment.NewAggregator(c); err != nil {
				t.Errorf("classifier not usable by aggregator: %v", err)
			}
		})
	}
}

func TestVerdictExpiry(t *testing.T) {
	t.Parallel()
	tests := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{ttl: 24 * time.Hour, want: 24 * time.Hour},
		{ttl: 1500 * time.Millisecond, want: 1500 * time.Millisecond},
		{ttl: 500 * time.Millisecond, want: 500 * time.Millisecond},
		{ttl: 200 * time.Microsecond, want: time.Millisecond},
	}
	for _, tt := range tests {
		got := verdictExpiry(tt.ttl)
		if got != tt.want {
			t.Errorf("verdictExpiry(%v) = %v, want %v", tt.ttl, got, tt.want)
		}
		if got/time.Millisecond < 1 {
			t.Errorf("verdictExpiry(%v) = %v rounds to PX 0", tt.ttl, got)
		}
	}
}

func TestVerdictCodec(t *testing.T) {
	t.Parallel()
	in := models.SentimentVerdict{Label: models.SentimentNegative, Confidence: 0.4}
	raw, err := encodeVerdict(in)
	if err != nil {
		t.Fatalf("encodeVerdict: %v", err)
	}
	out, err := decodeVerdict(raw)
	if err != nil {
		t.Fatalf("decodeVerdict: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"", "{", `{"label":"unknown","confidence":0.5}`, `{"label":"positive","confidence":3}`} {
		if _, err := decodeVerdict(bad); err == nil {
			t.Errorf("decodeVerdict(%q) succeeded, want error", bad)
		}
	}
}

func TestIsConnectionError(t *testing.T) {
	t.Parallel()
	if isConnectionError(nil) {
		t.Error("nil is not a connection error")
	}
	if !isConnectionError(errors.New("dial tcp: connection refused")) {
		t.Error("connection refused should be a connection error")
	}
	if isConnectionError(errors.New("WRONGTYPE")) {
		t.Error("WRONGTYPE is not a connection error")
	}
}
