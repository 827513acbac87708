package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"courtbook/internal/broker/kafka"
	"courtbook/internal/config"
	"courtbook/internal/database"
	paymentmod "courtbook/internal/modules/payment"
	"courtbook/internal/pkg/logger"
	"courtbook/internal/repository"
)

func main() {
	log := logger.New("payment-worker")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect")
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	service := paymentmod.NewService(repository.NewBookingRepository(db), log)
	handler := paymentmod.NewConsumer(service, log)

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.PaymentGroupID, nil, handler)
	if err != nil {
		log.Fatal().Err(err).Msg("kafka consumer")
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("topic", cfg.PaymentEventsTopic).Str("group", cfg.PaymentGroupID).Msg("payment worker started")
	if err := consumer.Run(ctx, []string{cfg.PaymentEventsTopic}); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("consumer stopped")
	}
}
