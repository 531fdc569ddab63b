package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/example/triptime/internal/events"
	"github.com/example/triptime/internal/model"
	"github.com/example/triptime/internal/pipeline"
	"github.com/example/triptime/internal/server"
	"github.com/example/triptime/internal/weather"
	"github.com/example/triptime/pkg/observability"
)

type appConfig struct {
	HTTPAddr        string
	RedisAddr       string
	NATSURL         string
	NATSSubject     string
	WeatherBaseURL  string
	WeatherCacheTTL time.Duration
	TrainSecret     string
	RateLimitRPS    float64
	RateLimitBurst  float64
	RetrainInterval time.Duration
	TrainDataset    string
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := observability.SetupLogger("triptime-api")
	defer logger.Sync() //nolint:errcheck

	shutdown, err := observability.SetupTracer(ctx, "triptime-api")
	if err != nil {
		logger.Warn("tracer setup failed", zap.Error(err))
	} else {
		defer shutdown(context.Background())
	}

	app := loadAppConfig()
	cfg, err := pipeline.ConfigFromEnv(app.TrainDataset)
	if err != nil {
		logger.Fatal("invalid pipeline config", zap.Error(err))
	}

	var redisClient *redis.Client
	if app.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: app.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("redis ping", zap.Error(err))
		}
		defer redisClient.Close()
	}

	var publisher *events.Publisher
	if app.NATSURL != "" {
		if conn, err := nats.Connect(app.NATSURL, nats.Name("triptime-api")); err == nil {
			defer conn.Drain() //nolint:errcheck
			publisher = events.NewPublisher(conn, app.NATSSubject)
		} else {
			logger.Warn("nats connection failed", zap.Error(err))
		}
	}

	source := weather.Source(weather.NewClient(app.WeatherBaseURL))
	if redisClient != nil {
		source = weather.NewCache(redisClient, source, app.WeatherCacheTTL)
	}

	p := pipeline.New(source, model.NewFileStore(), publisher, logger.Named("pipeline"))

	api := server.NewHTTP(p, cfg, logger.Named("http"))
	if app.TrainSecret != "" {
		api.WithTrainGuard(server.TrainGuard(app.TrainSecret))
	}

	r := chi.NewRouter()
	if limiter := server.NewLimiter(redisClient, server.RateLimit{Rate: app.RateLimitRPS, Burst: app.RateLimitBurst}); limiter != nil {
		r.Use(limiter.Middleware)
	}
	r.Mount("/", api.Router())
	r.Mount("/observability", observability.MetricsRouter())

	srv := &http.Server{
		Addr:              app.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if app.RetrainInterval > 0 {
		worker := pipeline.NewRetrainWorker(p, cfg, app.RetrainInterval, logger.Named("retrain"))
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("retrain worker stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		logger.Info("api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func loadAppConfig() appConfig {
	return appConfig{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		NATSURL:         os.Getenv("NATS_URL"),
		NATSSubject:     os.Getenv("NATS_SUBJECT"),
		WeatherBaseURL:  os.Getenv("WEATHER_BASE_URL"),
		WeatherCacheTTL: time.Duration(parseIntEnv("WEATHER_CACHE_TTL_MIN", 60)) * time.Minute,
		TrainSecret:     os.Getenv("TRAIN_JWT_SECRET"),
		RateLimitRPS:    parseFloatEnv("RATE_LIMIT_RPS", 0),
		RateLimitBurst:  parseFloatEnv("RATE_LIMIT_BURST", 0),
		RetrainInterval: time.Duration(parseIntEnv("RETRAIN_INTERVAL_MIN", 0)) * time.Minute,
		TrainDataset:    getenv("TRAIN_DATASET_PATH", "./data/train.zip"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func parseFloatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
