package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gustavopprado/Sistema-RH/internal/config"
	"github.com/gustavopprado/Sistema-RH/internal/messaging/kafka"
	"github.com/gustavopprado/Sistema-RH/internal/messaging/kafka/producer"
	"github.com/gustavopprado/Sistema-RH/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays outbox rows to Kafka until SIGINT/SIGTERM.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	if err := cfg.ValidateWorker(); err != nil {
		return err
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DatabaseURL, cfg.DBMaxRetries)
	if err != nil {
		return err
	}
	defer closeDB(gormDB, logger)

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.DBMaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(gormDB)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		cfg.OutboxPollInterval,
	)

	logger.Info("worker shutting down")
	return nil
}
