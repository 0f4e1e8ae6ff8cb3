package kafka_client

import (
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/hypewatch/config"
)

type KafkaConfig struct {
	Broker          string
	GroupID         string
	TranscriptTopic string
	ReportTopic     string
	TransactionalID string
}

func NewKafkaConfig(settings config.Settings) KafkaConfig {
	return KafkaConfig{
		Broker:          settings.KafkaBroker,
		GroupID:         settings.KafkaConsumerGroupID,
		TranscriptTopic: settings.KafkaTranscriptTopic,
		ReportTopic:     settings.KafkaReportTopic,
		TransactionalID: settings.KafkaConsumerGroupID + "-producer",
	}
}

func (c KafkaConfig) consumerConfigMap() *kafka.ConfigMap {
	return &kafka.ConfigMap{
		"bootstrap.servers":  c.Broker,
		"group.id":           c.GroupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
		"isolation.level":    "read_committed",
	}
}

func (c KafkaConfig) producerConfigMap() *kafka.ConfigMap {
	return &kafka.ConfigMap{
		"bootstrap.servers":                     c.Broker,
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
		"transactional.id":                      c.TransactionalID,
	}
}
