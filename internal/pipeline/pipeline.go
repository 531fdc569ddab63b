package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/triptime/internal/dataset"
	"github.com/example/triptime/internal/feature"
	"github.com/example/triptime/internal/model"
	"github.com/example/triptime/internal/weather"
)

// TrainingCompleted is emitted after a new model artifact is in place.
type TrainingCompleted struct {
	RunID     string    `json:"run_id"`
	ModelPath string    `json:"model_path"`
	Rows      int       `json:"rows"`
	TrainedAt time.Time `json:"trained_at"`
}

// EventPublisher broadcasts training completions.
type EventPublisher interface {
	Publish(ctx context.Context, event TrainingCompleted) error
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Pipeline runs the feature derivation shared by training and prediction
// and drives the regression backend through its narrow interface. Every
// stage is synchronous and fails fast; there is no partial-success mode
// because a half-predicted dataset has no meaningful use.
type Pipeline struct {
	weather      weather.Source
	store        model.Store
	events       EventPublisher
	clock        Clock
	logger       *zap.Logger
	newRegressor func() model.Regressor
}

// New constructs a Pipeline. events may be nil when no broker is available;
// a nil logger falls back to a no-op logger.
func New(src weather.Source, store model.Store, events EventPublisher, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		weather:      src,
		store:        store,
		events:       events,
		clock:        SystemClock{},
		logger:       logger,
		newRegressor: func() model.Regressor { return model.NewLeastSquares() },
	}
}

// WithClock replaces the clock, for tests.
func (p *Pipeline) WithClock(clock Clock) *Pipeline {
	p.clock = clock
	return p
}

// WithRegressor replaces the backend factory, keeping orchestration
// decoupled from the concrete algorithm.
func (p *Pipeline) WithRegressor(factory func() model.Regressor) *Pipeline {
	p.newRegressor = factory
	return p
}

// assembleFeatures runs the shared feature derivation in its fixed order:
// distance, temporal fields, weather fetch, weather join, projection onto
// the model input contract. Row order is preserved throughout.
func (p *Pipeline) assembleFeatures(ctx context.Context, cfg Config, trips []dataset.Trip) (*feature.Matrix, error) {
	f := feature.FromTrips(trips)
	if err := feature.AddDistance(f); err != nil {
		return nil, err
	}
	if err := feature.ExtractTemporal(f); err != nil {
		return nil, err
	}

	series, err := p.weather.Hourly(ctx, cfg.WeatherLocation, cfg.WeatherFrom, cfg.WeatherTo)
	if err != nil {
		return nil, fmt.Errorf("fetch weather: %w", err)
	}
	p.logger.Debug("weather fetched", zap.Int("observations", len(series)))

	if err := feature.JoinWeather(f, series); err != nil {
		return nil, err
	}
	return feature.Assemble(f)
}
