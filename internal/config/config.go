package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	HTTPAddr    string

	KafkaBrokers       []string
	BookingEventsTopic string
	PaymentEventsTopic string
	PaymentGroupID     string

	RelayInterval time.Duration
	RelayBatch    int
}

// Load reads the environment, optionally seeded from a local .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTTTL:             durationEnv("JWT_TTL", 24*time.Hour),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		BookingEventsTopic: envOrDefault("BOOKING_EVENTS_TOPIC", "booking-events"),
		PaymentEventsTopic: envOrDefault("PAYMENT_EVENTS_TOPIC", "payment-events"),
		PaymentGroupID:     envOrDefault("PAYMENT_CONSUMER_GROUP", "courtbook-payment-worker"),
		RelayInterval:      durationEnv("OUTBOX_RELAY_INTERVAL", 2*time.Second),
		RelayBatch:         100,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	brokers := envOrDefault("KAFKA_BROKERS", "localhost:9092")
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}

	return cfg, nil
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func durationEnv(name string, def time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
