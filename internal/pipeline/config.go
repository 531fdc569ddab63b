package pipeline

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/example/triptime/internal/weather"
)

// Config enumerates everything one pipeline invocation depends on. It is
// passed explicitly to Train and Predict so the two orchestrators share no
// hidden state and tests can point each run at its own paths.
type Config struct {
	DatasetPath     string
	ModelPath       string
	OutputPath      string
	WeatherLocation weather.Location
	WeatherFrom     time.Time
	WeatherTo       time.Time
}

const dateLayout = "2006-01-02"

// Defaults matching the NYC taxi trip duration dataset.
const (
	defaultModelPath  = "./data/model.json"
	defaultOutputPath = "./data/submission.csv"
	defaultLatitude   = 40.7128
	defaultLongitude  = -74.0060
	defaultStart      = "2015-12-31"
	defaultEnd        = "2016-07-31"
)

// ConfigFromEnv assembles a Config from environment variables, falling back
// to the dataset defaults. datasetPath is the fallback for DATASET_PATH so
// the training and prediction binaries can default to different files.
func ConfigFromEnv(datasetPath string) (Config, error) {
	cfg := Config{
		DatasetPath: getenv("DATASET_PATH", datasetPath),
		ModelPath:   getenv("MODEL_PATH", defaultModelPath),
		OutputPath:  getenv("OUTPUT_PATH", defaultOutputPath),
		WeatherLocation: weather.Location{
			Latitude:  parseFloatEnv("WEATHER_LAT", defaultLatitude),
			Longitude: parseFloatEnv("WEATHER_LON", defaultLongitude),
		},
	}

	var err error
	if cfg.WeatherFrom, err = parseDateEnv("WEATHER_START", defaultStart); err != nil {
		return Config{}, err
	}
	if cfg.WeatherTo, err = parseDateEnv("WEATHER_END", defaultEnd); err != nil {
		return Config{}, err
	}
	if cfg.WeatherTo.Before(cfg.WeatherFrom) {
		return Config{}, fmt.Errorf("weather range ends (%s) before it starts (%s)",
			cfg.WeatherTo.Format(dateLayout), cfg.WeatherFrom.Format(dateLayout))
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
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

func parseDateEnv(key, fallback string) (time.Time, error) {
	raw := getenv(key, fallback)
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s=%q: %w", key, raw, err)
	}
	return parsed.UTC(), nil
}
