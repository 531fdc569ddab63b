package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/example/triptime/internal/events"
	"github.com/example/triptime/internal/model"
	"github.com/example/triptime/internal/pipeline"
	"github.com/example/triptime/internal/weather"
	"github.com/example/triptime/pkg/observability"
)

func main() {
	_ = godotenv.Load()

	logger := observability.SetupLogger("triptime-train")
	defer logger.Sync() //nolint:errcheck

	cfg, err := pipeline.ConfigFromEnv("./data/train.zip")
	if err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := weather.Source(weather.NewClient(os.Getenv("WEATHER_BASE_URL")))
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()
		source = weather.NewCache(client, source, time.Hour)
	}

	var publisher *events.Publisher
	if url := os.Getenv("NATS_URL"); url != "" {
		conn, err := nats.Connect(url, nats.Name("triptime-train"))
		if err != nil {
			logger.Warn("nats connection failed", zap.Error(err))
		} else {
			defer conn.Drain() //nolint:errcheck
			publisher = events.NewPublisher(conn, os.Getenv("NATS_SUBJECT"))
		}
	}

	p := pipeline.New(source, model.NewFileStore(), publisher, logger)
	if _, err := p.Train(ctx, cfg); err != nil {
		logger.Fatal("training failed", zap.Error(err))
	}
}
