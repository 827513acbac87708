package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"courtbook/internal/broker/kafka"
	"courtbook/internal/config"
	"courtbook/internal/database"
	"courtbook/internal/outbox"
	"courtbook/internal/pkg/logger"
	"courtbook/internal/repository"
)

func main() {
	log := logger.New("outbox-relay")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect")
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("kafka producer")
	}
	defer producer.Close()

	relay := &outbox.Relay{
		Store:    repository.NewOutboxRepository(db),
		Producer: producer,
		Topic:    cfg.BookingEventsTopic,
		Interval: cfg.RelayInterval,
		Batch:    cfg.RelayBatch,
		Log:      log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("topic", cfg.BookingEventsTopic).Msg("outbox relay started")
	if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("relay stopped")
	}
}
