package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"custodial-ledger/config"
	"custodial-ledger/internal/adapter/messaging/rabbitmq"
	redisadapter "custodial-ledger/internal/adapter/storage/redis"
	"custodial-ledger/internal/core/domain"

	"github.com/rs/zerolog"

	"custodial-ledger/pkg/logger"
)

// logSink writes notifications to the log. Stands in for an email or push
// gateway; swap the sink, keep the pipeline.
type logSink struct {
	log zerolog.Logger
}

func (s *logSink) Notify(_ context.Context, event domain.TransferCompletedEvent) error {
	s.log.Info().
		Str("transaction_id", event.TransactionID.String()).
		Str("amount", event.Amount.String()).
		Str("sender", event.SenderContact).
		Str("receiver", event.ReceiverContact).
		Msg("transfer notification")
	return nil
}

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	broker, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatal().Err(err).Msg("rabbitmq connection failed")
	}
	defer broker.Close()

	deliveries, err := broker.Channel.Consume(cfg.RabbitMQ.Queue, "notifier", false, false, false, false, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("consume failed")
	}

	consumer := rabbitmq.NewConsumer(
		redisadapter.NewProcessedEventStore(redisClient),
		&logSink{log: log},
		log,
	)

	log.Info().Str("queue", cfg.RabbitMQ.Queue).Msg("notifier consuming")
	if err := consumer.Run(ctx, deliveries); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("consumer stopped")
	}
	log.Info().Msg("notifier stopped")
}
