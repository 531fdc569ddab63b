package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/triptime/internal/dataset"
	"github.com/example/triptime/internal/errs"
)

// TrainResult describes a completed training run.
type TrainResult struct {
	RunID     string    `json:"run_id"`
	ModelPath string    `json:"model_path"`
	Rows      int       `json:"rows"`
	TrainedAt time.Time `json:"trained_at"`
}

// Train loads the training dataset, derives features, fits a fresh
// regressor and persists its artifact at cfg.ModelPath, replacing any
// previous artifact. The save is atomic, so concurrent predictions keep
// reading the old artifact until the new one is fully in place.
func (p *Pipeline) Train(ctx context.Context, cfg Config) (TrainResult, error) {
	start := time.Now()
	result, err := p.train(ctx, cfg)
	observeRun("train", start, err)
	if err != nil {
		p.logger.Error("training failed", zap.Error(err))
		return TrainResult{}, err
	}
	p.logger.Info("model trained",
		zap.String("run_id", result.RunID),
		zap.String("model_path", result.ModelPath),
		zap.Int("rows", result.Rows),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (p *Pipeline) train(ctx context.Context, cfg Config) (TrainResult, error) {
	trips, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		return TrainResult{}, err
	}

	target := make([]float64, len(trips))
	for i, trip := range trips {
		if !trip.HasDuration {
			return TrainResult{}, errs.Schema("trip_duration")
		}
		target[i] = trip.TripDuration
	}

	features, err := p.assembleFeatures(ctx, cfg, trips)
	if err != nil {
		return TrainResult{}, err
	}

	regressor := p.newRegressor()
	if err := regressor.Fit(ctx, features, target); err != nil {
		return TrainResult{}, err
	}

	artifact := regressor.Artifact()
	artifact.TrainedAt = p.clock.Now()
	if err := p.store.Save(ctx, cfg.ModelPath, artifact); err != nil {
		return TrainResult{}, err
	}

	result := TrainResult{
		RunID:     uuid.NewString(),
		ModelPath: cfg.ModelPath,
		Rows:      len(trips),
		TrainedAt: artifact.TrainedAt,
	}

	if p.events != nil {
		event := TrainingCompleted(result)
		if err := p.events.Publish(ctx, event); err != nil {
			// Training already succeeded; a lost event is not worth failing it.
			p.logger.Warn("publish training event", zap.Error(err))
		}
	}
	return result, nil
}
