package model

import (
	"context"
	"fmt"
	"time"

	"github.com/example/triptime/internal/errs"
	"github.com/example/triptime/internal/feature"
)

// AlgorithmLeastSquares identifies artifacts produced by LeastSquares.
const AlgorithmLeastSquares = "least_squares"

// Regressor is the narrow capability the pipelines need from a regression
// backend. Any concrete algorithm can sit behind it; the orchestrators never
// look past Fit, Predict and Artifact.
type Regressor interface {
	Fit(ctx context.Context, x *feature.Matrix, y []float64) error
	Predict(ctx context.Context, x *feature.Matrix) ([]float64, error)
	Artifact() *Artifact
}

// Artifact is the persisted form of a fitted regressor. It is written and
// read only through this package; nothing else parses it.
type Artifact struct {
	Algorithm string    `json:"algorithm"`
	Columns   []string  `json:"columns"`
	Weights   []float64 `json:"weights"`
	Means     []float64 `json:"means"`
	Rows      int       `json:"rows"`
	TrainedAt time.Time `json:"trained_at"`
}

// Restore rebuilds a Regressor from a loaded artifact.
func Restore(a *Artifact) (Regressor, error) {
	switch a.Algorithm {
	case AlgorithmLeastSquares:
		return restoreLeastSquares(a)
	default:
		return nil, errs.Model("load", fmt.Errorf("unknown algorithm %q", a.Algorithm))
	}
}
