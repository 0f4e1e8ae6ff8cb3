// Package observe holds the OpenTelemetry metric instruments recorded by
// the scoring engine and its sentiment path.
//
// Tests should build a [Metrics] with [NewMetrics] and their own
// [metric.MeterProvider]; production code uses [Default], which is bound to
// the global provider.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/spacesedan/hypewatch"

const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusDegraded = "degraded"
)

type Metrics struct {
	// Analyses counts engine runs by status.
	Analyses metric.Int64Counter

	// AnalysisDuration is the wall time of one engine run in seconds.
	AnalysisDuration metric.Float64Histogram

	// ClassifierCalls counts calls that reached a classifier back-end by status.
	ClassifierCalls metric.Int64Counter

	// MemoHits counts chunk verdicts served without calling the classifier.
	MemoHits metric.Int64Counter
}

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)
	m := &Metrics{}
	var err error

	if m.Analyses, err = meter.Int64Counter("hypewatch.analyses",
		metric.WithDescription("Transcript analyses by status.")); err != nil {
		return nil, err
	}
	if m.AnalysisDuration, err = meter.Float64Histogram("hypewatch.analysis.duration",
		metric.WithDescription("Transcript analysis latency."),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.ClassifierCalls, err = meter.Int64Counter("hypewatch.classifier.calls",
		metric.WithDescription("Sentiment classifier invocations by status.")); err != nil {
		return nil, err
	}
	if m.MemoHits, err = meter.Int64Counter("hypewatch.memo.hits",
		metric.WithDescription("Chunk verdicts served from the memo.")); err != nil {
		return nil, err
	}
	return m, nil
}

var (
	defaultMetrics *Metrics
	defaultOnce    sync.Once
)

// Default returns metrics bound to the global meter provider.
func Default() *Metrics {
	defaultOnce.Do(func() {
		m, err := NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
		defaultMetrics = m
	})
	return defaultMetrics
}

func (m *Metrics) RecordAnalysis(ctx context.Context, status string, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.Analyses.Add(ctx, 1, attrs)
	m.AnalysisDuration.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *Metrics) RecordClassifierCall(ctx context.Context, status string) {
	m.ClassifierCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (m *Metrics) RecordMemoHit(ctx context.Context) {
	m.MemoHits.Add(ctx, 1)
}
