package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// RetrainWorker re-runs the training pipeline on a fixed interval so a
// long-lived service keeps its artifact fresh without operator involvement.
// A failed run is logged and the loop keeps going; the previous artifact
// stays in place untouched.
type RetrainWorker struct {
	pipeline *Pipeline
	cfg      Config
	interval time.Duration
	logger   *zap.Logger
}

// NewRetrainWorker builds a worker retraining every interval.
func NewRetrainWorker(p *Pipeline, cfg Config, interval time.Duration, logger *zap.Logger) *RetrainWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetrainWorker{pipeline: p, cfg: cfg, interval: interval, logger: logger}
}

// Run trains once immediately, then on every tick until the context is
// cancelled.
func (w *RetrainWorker) Run(ctx context.Context) error {
	if w.interval <= 0 {
		return errors.New("retrain worker requires a positive interval")
	}

	w.trainOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.trainOnce(ctx)
		}
	}
}

func (w *RetrainWorker) trainOnce(ctx context.Context) {
	if _, err := w.pipeline.Train(ctx, w.cfg); err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Error("scheduled retrain failed", zap.Error(err))
	}
}
