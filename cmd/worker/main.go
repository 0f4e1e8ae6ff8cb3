package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/hypewatch/config"
	"github.com/spacesedan/hypewatch/internal/bootstrap"
	"github.com/spacesedan/hypewatch/internal/clients/kafka_client"
	"github.com/spacesedan/hypewatch/internal/consumers"
	"github.com/spacesedan/hypewatch/internal/logging"
	"github.com/spacesedan/hypewatch/internal/monitoring"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	settings := config.Load()
	logging.InitLogger(settings.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.NewRuntime(settings)
	if err != nil {
		slog.Error("[Main] Failed to build engine", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer rt.Close()

	cfg := kafka_client.NewKafkaConfig(settings)

	var producer *kafka_client.KafkaProducer
	for {
		producer, err = kafka_client.NewKafkaProducer(ctx, cfg)
		if err == nil {
			break
		}
		slog.Warn("[Main] Kafka producer init failed, retrying...", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
	defer producer.Close()

	consumer, err := kafka_client.NewConsumer(cfg)
	if err != nil {
		slog.Error("[Main] Failed to start consumer", slog.String("error", err.Error()))
		return
	}
	defer consumer.Close()

	var opts []consumers.Option
	if checker, ok := rt.Classifier.(monitoring.HealthChecker); ok {
		healthy := &atomic.Bool{}
		healthy.Store(true)
		go monitoring.MonitorClassifierHealth(ctx, checker, healthy, monitoring.HEALTHCHECK_INTERVAL)
		opts = append(opts, consumers.WithHealthGate(healthy, monitoring.HEALTHCHECK_INTERVAL))
	}

	tc := consumers.NewTranscriptConsumer(
		kafka_client.NewKafkaMessageIterator(ctx, consumer),
		kafka_client.NewCommitHandler(ctx, consumer),
		producer,
		rt.Engine,
		opts...,
	)
	tc.Start(ctx)
	slog.Info("[Main] Worker stopped")
}
