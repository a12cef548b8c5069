package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"printhub/internal/agent"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file loaded: %s", err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).With().Timestamp().Logger()

	cfg := agent.Config{
		ServerURL:         envOrFatal(logger, "PRINT_SERVER_URL"),
		APIKey:            envOrFatal(logger, "PRINT_API_KEY"),
		PollInterval:      secondsEnv("POLL_INTERVAL_SECONDS", 5),
		HeartbeatInterval: secondsEnv("HEARTBEAT_INTERVAL_SECONDS", 30),
	}
	bridgeURL := envOrDefault("PRINT_BRIDGE_URL", "http://localhost:8182/print")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := agent.New(cfg, agent.NewBridgeRenderer(bridgeURL), logger)
	logger.Info().Str("server", cfg.ServerURL).Msg("Print agent starting")

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("Agent stopped")
	}
}

func envOrFatal(logger zerolog.Logger, key string) string {
	value := os.Getenv(key)
	if value == "" {
		logger.Fatal().Msgf("%s must be set", key)
	}
	return value
}

func envOrDefault(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func secondsEnv(key string, defaultValue int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(defaultValue) * time.Second
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return time.Duration(defaultValue) * time.Second
	}
	return time.Duration(value) * time.Second
}
