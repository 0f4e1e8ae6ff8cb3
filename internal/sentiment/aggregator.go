// Package sentiment splits transcripts into overlapping chunks, classifies
// them through a pluggable [Classifier] and aggregates the verdicts into a
// single summary.
package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/spacesedan/hypewatch/internal/models"
	"github.com/spacesedan/hypewatch/internal/observe"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultChunkSize     = 300
	DefaultChunkOverlap  = 50
	DefaultMinChunkChars = 20
	DefaultMaxChunks     = 5
	DefaultMemoSize      = 128
	DefaultConcurrency   = 4
)

// labelPrecedence breaks ties between equal chunk counts: earlier wins.
var labelPrecedence = []models.SentimentLabel{
	models.SentimentPositive,
	models.SentimentNegative,
	models.SentimentNeutral,
}

// Aggregator classifies the leading chunks of a transcript and folds the
// verdicts into a single summary.
type Aggregator struct {
	classifier Classifier
	memo       *Memo
	metrics    *observe.Metrics

	chunkSize   int
	overlap     int
	minChars    int
	maxChunks   int
	concurrency int
}

type Option func(*Aggregator)

func WithChunking(size, overlap, minChars int) Option {
	return func(a *Aggregator) {
		if size > 0 {
			a.chunkSize = size
		}
		if overlap >= 0 && overlap < a.chunkSize {
			a.overlap = overlap
		}
		if minChars >= 0 {
			a.minChars = minChars
		}
	}
}

// WithMaxChunks caps how many chunks are sent to the classifier.
func WithMaxChunks(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxChunks = n
		}
	}
}

func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

func WithMemo(m *Memo) Option {
	return func(a *Aggregator) {
		if m != nil {
			a.memo = m
		}
	}
}

func WithMetrics(m *observe.Metrics) Option {
	return func(a *Aggregator) {
		if m != nil {
			a.metrics = m
		}
	}
}

func NewAggregator(classifier Classifier, opts ...Option) (*Aggregator, error) {
	if classifier == nil {
		return nil, errors.New("sentiment: nil classifier")
	}
	a := &Aggregator{
		classifier:  classifier,
		chunkSize:   DefaultChunkSize,
		overlap:     DefaultChunkOverlap,
		minChars:    DefaultMinChunkChars,
		maxChunks:   DefaultMaxChunks,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.memo == nil {
		memo, err := NewMemo(DefaultMemoSize, nil)
		if err != nil {
			return nil, err
		}
		a.memo = memo
	}
	if a.metrics == nil {
		a.metrics = observe.Default()
	}
	return a, nil
}

// Analyze never fails: classifier errors degrade the summary instead.
func (a *Aggregator) Analyze(ctx context.Context, text string) models.SentimentSummary {
	chunks := SplitChunks(text, a.chunkSize, a.overlap, a.minChars)
	if len(chunks) > a.maxChunks {
		slog.Debug("[SentimentAggregator] Capping chunks",
			slog.Int("candidates", len(chunks)),
			slog.Int("max_chunks", a.maxChunks))
		chunks = chunks[:a.maxChunks]
	}
	if len(chunks) == 0 {
		return neutralSummary()
	}

	start := time.Now()
	verdicts := make([]*models.SentimentVerdict, len(chunks))
	failures := make([]error, len(chunks))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			v, err := a.classify(ctx, chunk)
			if err != nil {
				failures[i] = err
				return nil
			}
			verdicts[i] = &v
			return nil
		})
	}
	_ = g.Wait()

	summary := summarize(verdicts, failures)
	slog.Info("[SentimentAggregator] Sentiment analysis complete",
		slog.String("label", string(summary.Label)),
		slog.Int("chunks_analyzed", summary.ChunksAnalyzed),
		slog.Int("chunks_failed", summary.ChunksFailed),
		slog.Duration("elapsed", time.Since(start)))
	return summary
}

func (a *Aggregator) classify(ctx context.Context, chunk Chunk) (models.SentimentVerdict, error) {
	v, cached, err := a.memo.Do(ctx, chunk.Text, func() (verdict models.SentimentVerdict, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("classifier panic: %v", r)
			}
		}()

		raw, err := a.classifier.Classify(ctx, chunk.Text)
		if err == nil {
			raw, err = ValidateVerdict(raw)
		}
		if err != nil {
			a.metrics.RecordClassifierCall(ctx, observe.StatusError)
			return models.SentimentVerdict{}, err
		}
		a.metrics.RecordClassifierCall(ctx, observe.StatusOK)
		return raw, nil
	})
	if err != nil {
		slog.Warn("[SentimentAggregator] Chunk classification failed",
			slog.Int("chunk", chunk.Index),
			slog.String("error", err.Error()))
		return models.SentimentVerdict{}, &ClassifierError{Chunk: chunk.Index, Err: err}
	}
	if cached {
		a.metrics.RecordMemoHit(ctx)
	}
	return v, nil
}

func summarize(verdicts []*models.SentimentVerdict, failures []error) models.SentimentSummary {
	counts := models.NewChunkCounts()
	var (
		classified int
		confSum    float64
		failed     int
		firstErr   error
	)
	for i, v := range verdicts {
		if v == nil {
			failed++
			if firstErr == nil {
				firstErr = failures[i]
			}
			continue
		}
		counts[v.Label]++
		confSum += v.Confidence
		classified++
	}

	if classified == 0 {
		return models.SentimentSummary{
			Label:        models.SentimentUnknown,
			ChunkCounts:  models.NewChunkCounts(),
			ChunksFailed: failed,
			Note:         fmt.Sprintf("sentiment unavailable: all %d chunks failed classification: %v", failed, firstErr),
		}
	}

	dominant := labelPrecedence[0]
	for _, label := range labelPrecedence[1:] {
		if counts[label] > counts[dominant] {
			dominant = label
		}
	}

	summary := models.SentimentSummary{
		Label:          dominant,
		Confidence:     round(confSum/float64(classified), 3),
		PositiveRatio:  round(float64(counts[models.SentimentPositive])/float64(classified), 3),
		ChunkCounts:    counts,
		ChunksAnalyzed: classified,
		ChunksFailed:   failed,
	}
	if failed > 0 {
		summary.Note = fmt.Sprintf("%d of %d chunks failed classification", failed, failed+classified)
	}
	return summary
}

func neutralSummary() models.SentimentSummary {
	return models.SentimentSummary{
		Label:       models.SentimentNeutral,
		ChunkCounts: models.NewChunkCounts(),
	}
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
