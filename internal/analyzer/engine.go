// Package analyzer is the scoring engine's entry point. It runs the
// lexical detectors and the sentiment aggregator side by side over one
// transcript and composes their results into a [models.RiskReport].
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spacesedan/hypewatch/internal/detectors"
	"github.com/spacesedan/hypewatch/internal/lexicon"
	"github.com/spacesedan/hypewatch/internal/models"
	"github.com/spacesedan/hypewatch/internal/observe"
	"github.com/spacesedan/hypewatch/internal/scoring"
	"golang.org/x/sync/errgroup"
)

// SentimentAnalyzer summarizes the sentiment of a transcript. It must not
// fail; classifier problems are reported inside the summary.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) models.SentimentSummary
}

type Engine struct {
	lexicon   *lexicon.Lexicon
	sentiment SentimentAnalyzer
	metrics   *observe.Metrics
}

type Option func(*Engine)

func WithMetrics(m *observe.Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

func NewEngine(lex *lexicon.Lexicon, sentiment SentimentAnalyzer, opts ...Option) (*Engine, error) {
	if lex == nil {
		return nil, errors.New("analyzer: nil lexicon")
	}
	if sentiment == nil {
		return nil, errors.New("analyzer: nil sentiment analyzer")
	}
	e := &Engine{lexicon: lex, sentiment: sentiment}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = observe.Default()
	}
	return e, nil
}

// Analyze scores text. Blank text is valid and yields an all-zero,
// low-severity report.
func (e *Engine) Analyze(ctx context.Context, text string) (models.RiskReport, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		e.metrics.RecordAnalysis(ctx, observe.StatusError, time.Since(start))
		return models.RiskReport{}, err
	}

	var (
		kw   models.KeywordResult
		disc models.DisclaimerResult
		exag models.ExaggerationResult
		sent models.SentimentSummary
	)

	var g errgroup.Group
	goSafe(&g, "keywords", func() { kw = detectors.DetectKeywords(e.lexicon, text) })
	goSafe(&g, "disclaimers", func() { disc = detectors.DetectDisclaimers(e.lexicon, text) })
	goSafe(&g, "exaggerations", func() { exag = detectors.DetectExaggerations(text) })
	goSafe(&g, "sentiment", func() { sent = e.sentiment.Analyze(ctx, text) })
	if err := g.Wait(); err != nil {
		e.metrics.RecordAnalysis(ctx, observe.StatusError, time.Since(start))
		return models.RiskReport{}, err
	}

	report := Compose(kw, disc, exag, sent, len(strings.Fields(text)))

	status := observe.StatusOK
	if sent.Label == models.SentimentUnknown {
		status = observe.StatusDegraded
	}
	e.metrics.RecordAnalysis(ctx, status, time.Since(start))

	slog.Info("[Engine] Transcript analyzed",
		slog.Int("words", report.TranscriptLength),
		slog.Float64("hype_score", report.HypeScore.Score),
		slog.Float64("risk_score", report.RiskScore.Score),
		slog.String("risk_label", string(report.RiskScore.Label)),
		slog.String("sentiment", string(sent.Label)),
		slog.Duration("elapsed", time.Since(start)))
	return report, nil
}

// Compose assembles a report from already computed detector results.
func Compose(kw models.KeywordResult, disc models.DisclaimerResult, exag models.ExaggerationResult, sent models.SentimentSummary, words int) models.RiskReport {
	risk := scoring.ComposeRisk(kw, disc, exag, sent)
	return models.RiskReport{
		HypeScore:        scoring.ComposeHype(kw, disc, exag, sent),
		RiskScore:        risk,
		HypeAnalysis:     kw,
		Disclaimer:       disc,
		Exaggeration:     exag,
		Sentiment:        sent,
		Reasons:          risk.Reasons,
		TranscriptLength: words,
	}
}

// Run is the boundary used by the CLI and the worker. It never panics and
// always returns a well-formed response.
func (e *Engine) Run(ctx context.Context, text string) (resp models.Response) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[Engine] Recovered from panic",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			resp = models.Response{Success: false, Error: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	report, err := e.Analyze(ctx, text)
	if err != nil {
		slog.Error("[Engine] Analysis failed", slog.String("error", err.Error()))
		return models.Response{Success: false, Error: err.Error()}
	}
	return models.Response{Success: true, Report: &report}
}

// goSafe runs fn in g and turns a panic into an error for Wait.
func goSafe(g *errgroup.Group, name string, fn func()) {
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s detector panicked: %v", name, r)
			}
		}()
		fn()
		return nil
	})
}
