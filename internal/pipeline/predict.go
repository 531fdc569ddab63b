package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/triptime/internal/dataset"
	"github.com/example/triptime/internal/model"
)

// PredictResult describes a completed batch prediction run.
type PredictResult struct {
	Rows       int    `json:"rows"`
	ModelPath  string `json:"model_path"`
	OutputPath string `json:"output_path"`
}

// Predict runs the batch prediction pipeline: load the dataset, derive the
// same features as training, predict with the persisted artifact and write
// the id,trip_duration submission file. Output row order matches input row
// order; rerunning over unchanged inputs produces a byte-identical file.
func (p *Pipeline) Predict(ctx context.Context, cfg Config) (PredictResult, error) {
	start := time.Now()
	result, err := p.predict(ctx, cfg)
	observeRun("predict", start, err)
	if err != nil {
		p.logger.Error("prediction failed", zap.Error(err))
		return PredictResult{}, err
	}
	p.logger.Info("predictions written",
		zap.String("output_path", result.OutputPath),
		zap.Int("rows", result.Rows),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (p *Pipeline) predict(ctx context.Context, cfg Config) (PredictResult, error) {
	trips, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		return PredictResult{}, err
	}

	predictions, err := p.PredictTrips(ctx, cfg, trips)
	if err != nil {
		return PredictResult{}, err
	}

	if err := dataset.WritePredictions(cfg.OutputPath, predictions); err != nil {
		return PredictResult{}, err
	}
	return PredictResult{Rows: len(predictions), ModelPath: cfg.ModelPath, OutputPath: cfg.OutputPath}, nil
}

// PredictTrips predicts durations for in-memory trips, one prediction per
// trip in input order. The artifact is loaded once at the start of the
// invocation, pinning the whole run to a single model snapshot even if a
// retrain lands concurrently.
func (p *Pipeline) PredictTrips(ctx context.Context, cfg Config, trips []dataset.Trip) ([]dataset.Prediction, error) {
	artifact, err := p.store.Load(ctx, cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	regressor, err := model.Restore(artifact)
	if err != nil {
		return nil, err
	}

	features, err := p.assembleFeatures(ctx, cfg, trips)
	if err != nil {
		return nil, err
	}

	values, err := regressor.Predict(ctx, features)
	if err != nil {
		return nil, err
	}

	predictions := make([]dataset.Prediction, len(trips))
	for i, trip := range trips {
		predictions[i] = dataset.Prediction{ID: trip.ID, TripDuration: values[i]}
	}
	predictionsTotal.Add(float64(len(predictions)))
	return predictions, nil
}
