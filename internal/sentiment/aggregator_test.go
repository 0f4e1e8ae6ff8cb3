package sentiment

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spacesedan/hypewatch/internal/models"
)

// countingClassifier returns a fixed verdict and counts invocations.
type countingClassifier struct {
	verdict models.SentimentVerdict
	calls   atomic.Int32
}

func (c *countingClassifier) Classify(_ context.Context, _ string) (models.SentimentVerdict, error) {
	c.calls.Add(1)
	return c.verdict, nil
}

func failingClassifier() Classifier {
	return ClassifierFunc(func(context.Context, string) (models.SentimentVerdict, error) {
		return models.SentimentVerdict{}, errors.New("model offline")
	})
}

// prefixClassifier labels a chunk by the prefix of its first word.
func prefixClassifier() Classifier {
	return ClassifierFunc(func(_ context.Context, text string) (models.SentimentVerdict, error) {
		switch {
		case strings.HasPrefix(text, "pos"):
			return models.SentimentVerdict{Label: models.SentimentPositive, Confidence: 0.8}, nil
		case strings.HasPrefix(text, "neg"):
			return models.SentimentVerdict{Label: models.SentimentNegative, Confidence: 0.6}, nil
		case strings.HasPrefix(text, "neu"):
			return models.SentimentVerdict{Label: models.SentimentNeutral, Confidence: 0.5}, nil
		case strings.HasPrefix(text, "bad"):
			return models.SentimentVerdict{}, errors.New("boom")
		case strings.HasPrefix(text, "panic"):
			panic("classifier exploded")
		default:
			return models.SentimentVerdict{Label: "bullish", Confidence: 0.9}, nil
		}
	})
}

func newTestAggregator(t *testing.T, c Classifier, opts ...Option) *Aggregator {
	t.Helper()
	a, err := NewAggregator(c, append([]Option{WithChunking(2, 0, 0)}, opts...)...)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	return a
}

func TestNewAggregator_NilClassifier(t *testing.T) {
	t.Parallel()
	if _, err := NewAggregator(nil); err == nil {
		t.Fatal("expected error for nil classifier")
	}
}

func TestAnalyze_EmptyTextIsNeutral(t *testing.T) {
	t.Parallel()
	c := &countingClassifier{verdict: models.SentimentVerdict{Label: models.SentimentPositive, Confidence: 1}}
	a := newTestAggregator(t, c)

	got := a.Analyze(context.Background(), "  ")
	want := models.SentimentSummary{Label: models.SentimentNeutral, ChunkCounts: models.NewChunkCounts()}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if c.calls.Load() != 0 {
		t.Errorf("classifier called %d times for empty text", c.calls.Load())
	}
}

func TestAnalyze_TiePrecedence(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		text string
		want models.SentimentLabel
	}{
		{"positive beats negative", "pos1 pos2 neg1 neg2", models.SentimentPositive},
		{"negative beats neutral", "neu1 neu2 neg1 neg2", models.SentimentNegative},
		{"positive beats neutral", "neu1 neu2 pos1 pos2", models.SentimentPositive},
		{"majority wins", "neu1 neu2 neu3 neu4 pos1 pos2", models.SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := newTestAggregator(t, prefixClassifier()).Analyze(context.Background(), tt.text)
			if got.Label != tt.want {
				t.Errorf("Label = %q, want %q (counts %v)", got.Label, tt.want, got.ChunkCounts)
			}
		})
	}
}

func TestAnalyze_Aggregates(t *testing.T) {
	t.Parallel()
	a := newTestAggregator(t, prefixClassifier())

	got := a.Analyze(context.Background(), "pos1 pos2 pos3 pos4 neg1 neg2")
	want := models.SentimentSummary{
		Label:         models.SentimentPositive,
		Confidence:    0.733,
		PositiveRatio: 0.667,
		ChunkCounts: map[models.SentimentLabel]int{
			models.SentimentPositive: 2,
			models.SentimentNegative: 1,
			models.SentimentNeutral:  0,
		},
		ChunksAnalyzed: 3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_AllFailuresDegradeToUnknown(t *testing.T) {
	t.Parallel()
	got := newTestAggregator(t, failingClassifier()).Analyze(context.Background(), "a b c d e f")

	if got.Label != models.SentimentUnknown {
		t.Errorf("Label = %q, want unknown", got.Label)
	}
	if got.Confidence != 0 || got.PositiveRatio != 0 || got.ChunksAnalyzed != 0 {
		t.Errorf("degraded summary should carry no signal, got %+v", got)
	}
	if diff := cmp.Diff(models.NewChunkCounts(), got.ChunkCounts); diff != "" {
		t.Errorf("chunk counts should be zero (-want +got):\n%s", diff)
	}
	if got.ChunksFailed != 3 {
		t.Errorf("ChunksFailed = %d, want 3", got.ChunksFailed)
	}
	if !strings.Contains(got.Note, "model offline") {
		t.Errorf("Note = %q, want the classifier error", got.Note)
	}
}

func TestAnalyze_PartialFailureKeepsSurvivors(t *testing.T) {
	t.Parallel()
	// bad: error, panic: panic, zzz: invalid label; only pos survives.
	got := newTestAggregator(t, prefixClassifier()).Analyze(context.Background(),
		"bad1 bad2 pos1 pos2 panic1 panic2 zzz1 zzz2")

	if got.Label != models.SentimentPositive || got.ChunksAnalyzed != 1 || got.ChunksFailed != 3 {
		t.Errorf("got %+v, want one positive chunk and three failures", got)
	}
	if got.PositiveRatio != 1 {
		t.Errorf("PositiveRatio = %v, want 1", got.PositiveRatio)
	}
	if got.Note == "" {
		t.Error("partial failure should leave a note")
	}
}

func TestAnalyze_CapsChunks(t *testing.T) {
	t.Parallel()
	c := &countingClassifier{verdict: models.SentimentVerdict{Label: models.SentimentNeutral, Confidence: 0.5}}
	a := newTestAggregator(t, c, WithMaxChunks(5))

	got := a.Analyze(context.Background(), words(20))
	if got.ChunksAnalyzed != 5 {
		t.Errorf("ChunksAnalyzed = %d, want 5", got.ChunksAnalyzed)
	}
	if c.calls.Load() != 5 {
		t.Errorf("classifier called %d times, want 5", c.calls.Load())
	}
}

func TestAnalyze_MemoizesAcrossCalls(t *testing.T) {
	t.Parallel()
	c := &countingClassifier{verdict: models.SentimentVerdict{Label: models.SentimentPositive, Confidence: 0.9}}
	a := newTestAggregator(t, c)

	first := a.Analyze(context.Background(), "same text")
	second := a.Analyze(context.Background(), "same text")
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("memoized result differs (-first +second):\n%s", diff)
	}
	if c.calls.Load() != 1 {
		t.Errorf("classifier called %d times, want 1", c.calls.Load())
	}
}

func TestAnalyze_IdenticalChunksClassifiedOnce(t *testing.T) {
	t.Parallel()
	c := &countingClassifier{verdict: models.SentimentVerdict{Label: models.SentimentNegative, Confidence: 0.4}}
	a := newTestAggregator(t, c, WithConcurrency(8), WithMaxChunks(8))

	got := a.Analyze(context.Background(), strings.Repeat("echo echo ", 8))
	if got.ChunksAnalyzed != 8 || got.ChunkCounts[models.SentimentNegative] != 8 {
		t.Errorf("got %+v, want 8 negative chunks", got)
	}
	if c.calls.Load() != 1 {
		t.Errorf("classifier called %d times for identical chunks, want 1", c.calls.Load())
	}
}

func TestAnalyze_FailuresAreNotMemoized(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	flaky := ClassifierFunc(func(context.Context, string) (models.SentimentVerdict, error) {
		if calls.Add(1) == 1 {
			return models.SentimentVerdict{}, errors.New("timeout")
		}
		return models.SentimentVerdict{Label: models.SentimentPositive, Confidence: 0.7}, nil
	})
	a := newTestAggregator(t, flaky)

	if got := a.Analyze(context.Background(), "retry me"); got.Label != models.SentimentUnknown {
		t.Fatalf("first call Label = %q, want unknown", got.Label)
	}
	if got := a.Analyze(context.Background(), "retry me"); got.Label != models.SentimentPositive {
		t.Errorf("second call Label = %q, want positive", got.Label)
	}
}

func TestValidateVerdict(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      models.SentimentVerdict
		want    models.SentimentVerdict
		wantErr bool
	}{
		{in: models.SentimentVerdict{Label: " Positive ", Confidence: 0.5}, want: models.SentimentVerdict{Label: models.SentimentPositive, Confidence: 0.5}},
		{in: models.SentimentVerdict{Label: "neutral", Confidence: 0}, want: models.SentimentVerdict{Label: models.SentimentNeutral}},
		{in: models.SentimentVerdict{Label: "unknown", Confidence: 0.5}, wantErr: true},
		{in: models.SentimentVerdict{Label: "negative", Confidence: 1.01}, wantErr: true},
		{in: models.SentimentVerdict{Label: "negative", Confidence: -0.1}, wantErr: true},
	}
	for _, tt := range tests {
		got, err := ValidateVerdict(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVerdict(%+v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidVerdict) {
			t.Errorf("error %v should wrap ErrInvalidVerdict", err)
		}
		if got != tt.want {
			t.Errorf("ValidateVerdict(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
