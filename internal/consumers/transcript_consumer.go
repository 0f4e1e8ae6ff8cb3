package consumers

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/hypewatch/internal/clients/kafka_client"
	"github.com/spacesedan/hypewatch/internal/models"
	"github.com/spacesedan/hypewatch/internal/utils"
)

type MessageSource interface {
	Next() (*kafka.Message, error)
}

type Committer interface {
	Commit(msg *kafka.Message) error
}

type ReportPublisher interface {
	PublishReports(ctx context.Context, reports []models.ScoredTranscript) error
}

// Scorer is satisfied by *analyzer.Engine.
type Scorer interface {
	Run(ctx context.Context, text string) models.Response
}

type pendingReport struct {
	report models.ScoredTranscript
	msg    *kafka.Message
}

// TranscriptConsumer scores transcripts read from Kafka and publishes the
// reports in batches. Offsets are committed only after the batch holding
// their report has been published.
type TranscriptConsumer struct {
	source    MessageSource
	committer Committer
	publisher ReportPublisher
	scorer    Scorer

	buffer       *utils.BatchBuffer[pendingReport]
	batchSize    int
	batchTimeout time.Duration

	healthy    *atomic.Bool
	healthWait time.Duration

	now func() time.Time
}

type Option func(*TranscriptConsumer)

// WithHealthGate makes the consumer hold each message for up to wait while
// healthy is false. After that the message is scored anyway and the
// report comes out degraded.
func WithHealthGate(healthy *atomic.Bool, wait time.Duration) Option {
	return func(c *TranscriptConsumer) {
		c.healthy = healthy
		c.healthWait = wait
	}
}

func WithBatching(size int, timeout time.Duration) Option {
	return func(c *TranscriptConsumer) {
		if size > 0 {
			c.batchSize = size
		}
		if timeout > 0 {
			c.batchTimeout = timeout
		}
	}
}

func NewTranscriptConsumer(source MessageSource, committer Committer, publisher ReportPublisher, scorer Scorer, opts ...Option) *TranscriptConsumer {
	c := &TranscriptConsumer{
		source:       source,
		committer:    committer,
		publisher:    publisher,
		scorer:       scorer,
		buffer:       utils.NewBatchBuffer[pendingReport](),
		batchSize:    kafka_client.BATCH_SIZE,
		batchTimeout: kafka_client.BATCH_TIMEOUT,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start runs until ctx is done or the source fails for good. Whatever is
// buffered at that point is flushed before returning.
func (c *TranscriptConsumer) Start(ctx context.Context) {
	slog.Info("[TranscriptConsumer] Listening for transcripts",
		slog.Int("batch_size", c.batchSize),
		slog.Duration("batch_timeout", c.batchTimeout))

	ticker := time.NewTicker(c.batchTimeout)
	defer ticker.Stop()

	defer func() {
		// The run context is gone; give the final flush its own deadline.
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		c.Flush(flushCtx)
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[TranscriptConsumer] Consumer shutting down...")
			return
		case <-ticker.C:
			c.Flush(ctx)
		default:
			msg, err := c.source.Next()
			if err != nil {
				utils.HandleConsumerError(err)
				return
			}
			if msg == nil {
				continue
			}
			c.HandleMessage(ctx, msg)
			if c.buffer.Size() >= c.batchSize {
				c.Flush(ctx)
			}
		}
	}
}

// HandleMessage scores one message and buffers the report. A payload that
// cannot be decoded still yields an error-shaped report so that its offset
// is committed in order with its neighbours.
func (c *TranscriptConsumer) HandleMessage(ctx context.Context, msg *kafka.Message) {
	var transcript models.TranscriptMessage
	var resp models.Response

	if err := utils.DeserializeFromJSON(msg.Value, &transcript); err != nil {
		resp = models.Response{Success: false, Error: "malformed transcript message: " + err.Error()}
	} else if strings.TrimSpace(transcript.ContentID) == "" {
		resp = models.Response{Success: false, Error: "transcript message has no content_id"}
	} else {
		c.waitForHealthy(ctx)
		resp = c.scorer.Run(ctx, transcript.Text)
	}
	if transcript.ContentID == "" {
		transcript.ContentID = string(msg.Key)
	}

	c.buffer.Add(pendingReport{
		report: models.ScoredTranscript{
			ContentID: transcript.ContentID,
			Source:    transcript.Source,
			Title:     transcript.Title,
			Metadata:  transcript.Metadata,
			Response:  resp,
			ScoredAt:  c.now().UTC(),
		},
		msg: msg,
	})
}

// Flush publishes everything buffered and commits the source offsets. A
// failed publish puts the batch back in front of the buffer.
func (c *TranscriptConsumer) Flush(ctx context.Context) {
	if !c.buffer.HasData() {
		return
	}
	c.buffer.LogBatchProcessing("risk_reports")
	batch := c.buffer.GetAndClear()
	if len(batch) == 0 {
		return
	}

	reports := make([]models.ScoredTranscript, len(batch))
	for i, p := range batch {
		reports[i] = p.report
	}

	var err error
	for i := 0; i < 3; i++ {
		if err = c.publisher.PublishReports(ctx, reports); err == nil {
			break
		}
		slog.Warn("[TranscriptConsumer] Batch publishing failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if ctx.Err() != nil {
			break
		}
	}
	if err != nil {
		slog.Error("[TranscriptConsumer] Giving up on batch for now, will retry",
			slog.Int("batch_size", len(batch)),
			slog.String("error", err.Error()))
		c.buffer.Requeue(batch)
		return
	}

	for _, p := range batch {
		if err := c.committer.Commit(p.msg); err != nil {
			slog.Warn("[TranscriptConsumer] Failed to commit offset",
				slog.String("content_id", p.report.ContentID),
				slog.String("error", err.Error()))
		}
	}
}

func (c *TranscriptConsumer) waitForHealthy(ctx context.Context) {
	if c.healthy == nil || c.healthy.Load() {
		return
	}

	slog.Warn("[TranscriptConsumer] Classifier unhealthy, holding message",
		slog.Duration("max_wait", c.healthWait))

	deadline := time.NewTimer(c.healthWait)
	defer deadline.Stop()
	poll := time.NewTicker(min(time.Second, max(c.healthWait/10, time.Millisecond)))
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			slog.Warn("[TranscriptConsumer] Classifier still unhealthy, scoring degraded")
			return
		case <-poll.C:
			if c.healthy.Load() {
				return
			}
		}
	}
}
