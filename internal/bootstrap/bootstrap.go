// Package bootstrap turns Settings into a ready scoring engine. Both
// binaries start here.
package bootstrap

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spacesedan/hypewatch/config"
	"github.com/spacesedan/hypewatch/internal/analyzer"
	"github.com/spacesedan/hypewatch/internal/clients"
	"github.com/spacesedan/hypewatch/internal/lexicon"
	"github.com/spacesedan/hypewatch/internal/observe"
	"github.com/spacesedan/hypewatch/internal/sentiment"
)

type Runtime struct {
	Engine     *analyzer.Engine
	Classifier sentiment.Classifier

	closers []io.Closer
	valkey  *clients.ValkeyClient
}

// Close releases the classifier and the Valkey connection.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	if r.valkey != nil {
		r.valkey.Close()
	}
	return errors.Join(errs...)
}

// NewRuntime loads the lexicon, builds the configured classifier and wires
// the memo. A Valkey address enables the shared verdict tier; if Valkey is
// unreachable the engine runs with the in-process memo only.
func NewRuntime(settings config.Settings) (*Runtime, error) {
	lex, err := lexicon.Load(settings.LexiconPath)
	if err != nil {
		return nil, err
	}

	classifier, closer, err := clients.NewClassifier(settings)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{Classifier: classifier, closers: []io.Closer{closer}}

	var shared sentiment.VerdictStore
	if settings.ValkeyAddress != "" {
		vc, err := clients.NewValkeyClient(settings.ValkeyAddress, settings.ValkeyPassword, settings.ValkeyTLS, settings.ValkeyTTL)
		if err != nil {
			slog.Warn("[Bootstrap] Valkey unavailable, using in-process memo only",
				slog.String("error", err.Error()))
		} else {
			rt.valkey = vc
			shared = vc
		}
	}

	memo, err := sentiment.NewMemo(settings.CacheSize, shared)
	if err != nil {
		rt.Close()
		return nil, err
	}

	metrics := observe.Default()
	agg, err := sentiment.NewAggregator(classifier,
		sentiment.WithChunking(settings.ChunkSize, settings.ChunkOverlap, settings.MinChunkChars),
		sentiment.WithMaxChunks(settings.MaxChunks),
		sentiment.WithMemo(memo),
		sentiment.WithMetrics(metrics),
	)
	if err != nil {
		rt.Close()
		return nil, err
	}

	engine, err := analyzer.NewEngine(lex, agg, analyzer.WithMetrics(metrics))
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Engine = engine

	slog.Info("[Bootstrap] Engine ready",
		slog.String("classifier", settings.Classifier),
		slog.Int("hype_phrases", len(lex.HypePhrases())),
		slog.Int("disclaimer_phrases", len(lex.DisclaimerPhrases())),
		slog.Bool("shared_memo", shared != nil))
	return rt, nil
}
