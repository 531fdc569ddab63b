package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/example/triptime/internal/model"
	"github.com/example/triptime/internal/pipeline"
	"github.com/example/triptime/internal/weather"
	"github.com/example/triptime/pkg/observability"
)

func main() {
	_ = godotenv.Load()

	logger := observability.SetupLogger("triptime-predict")
	defer logger.Sync() //nolint:errcheck

	cfg, err := pipeline.ConfigFromEnv("./data/test.zip")
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

	p := pipeline.New(source, model.NewFileStore(), nil, logger)
	if _, err := p.Predict(ctx, cfg); err != nil {
		logger.Fatal("prediction failed", zap.Error(err))
	}
}
