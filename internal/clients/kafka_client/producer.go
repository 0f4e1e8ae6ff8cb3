package kafka_client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/hypewatch/internal/models"
	"github.com/spacesedan/hypewatch/internal/utils"
)

// KafkaProducer publishes scored transcripts inside Kafka transactions so
// a batch is visible to read_committed consumers all at once or not at all.
type KafkaProducer struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaProducer(ctx context.Context, cfg KafkaConfig) (*KafkaProducer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.ReportTopic))

	p, err := kafka.NewProducer(cfg.producerConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	if err := p.InitTransactions(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to init transactions: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &KafkaProducer{producer: p, topic: cfg.ReportTopic}, nil
}

func (kp *KafkaProducer) Close() {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := kp.producer.Flush(5000); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	kp.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}

// PublishReports writes one message per report, keyed by content ID, in a
// single transaction.
func (kp *KafkaProducer) PublishReports(ctx context.Context, reports []models.ScoredTranscript) error {
	if len(reports) == 0 {
		return nil
	}

	if err := kp.producer.BeginTransaction(); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, report := range reports {
		value, err := utils.SerializeToJSON(report)
		if err == nil {
			err = kp.produce(&kafka.Message{
				TopicPartition: kafka.TopicPartition{Topic: &kp.topic, Partition: kafka.PartitionAny},
				Key:            []byte(report.ContentID),
				Value:          value,
			})
		}
		if err != nil {
			if abortErr := kp.producer.AbortTransaction(ctx); abortErr != nil {
				return fmt.Errorf("failed to abort transaction after %v: %w", err, abortErr)
			}
			return fmt.Errorf("publish %s: %w", report.ContentID, err)
		}
	}

	var commitErr error
	for i := 0; i < 3; i++ {
		commitErr = kp.producer.CommitTransaction(ctx)
		if commitErr == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to commit transaction, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", commitErr.Error()))
		if kafkaErr, ok := commitErr.(kafka.Error); ok && kafkaErr.TxnRequiresAbort() {
			break
		}
	}
	if commitErr != nil {
		_ = kp.producer.AbortTransaction(ctx)
		return fmt.Errorf("failed to commit transaction: %w", commitErr)
	}

	slog.Info("[KafkaClient] Published risk reports transactionally",
		slog.String("topic", kp.topic),
		slog.Int("count", len(reports)))
	return nil
}

func (kp *KafkaProducer) produce(msg *kafka.Message) error {
	var err error
	for i := 0; i < 3; i++ {
		err = kp.producer.Produce(msg, nil)
		if err == nil {
			return nil
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if kafkaErr, ok := err.(kafka.Error); !ok || kafkaErr.Code() != kafka.ErrQueueFull {
			return err
		}
		kp.producer.Flush(1000)
	}
	return err
}
