package model

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/example/triptime/internal/errs"
	"github.com/example/triptime/internal/feature"
)

const defaultLambda = 1e-3

// LeastSquares is a ridge-regularized linear regression backend. NaN feature
// cells (unmatched weather, malformed coordinates) are imputed with the
// per-column mean learned at fit time; the means travel with the artifact so
// prediction applies the same imputation.
type LeastSquares struct {
	Lambda float64

	columns []string
	weights []float64
	means   []float64
	rows    int
}

// NewLeastSquares returns an unfitted backend with the default
// regularization strength.
func NewLeastSquares() *LeastSquares {
	return &LeastSquares{Lambda: defaultLambda}
}

func restoreLeastSquares(a *Artifact) (*LeastSquares, error) {
	if len(a.Weights) != len(a.Columns)+1 || len(a.Means) != len(a.Columns) {
		return nil, errs.Model("load", fmt.Errorf("artifact shape mismatch: %d columns, %d weights, %d means",
			len(a.Columns), len(a.Weights), len(a.Means)))
	}
	return &LeastSquares{
		Lambda:  defaultLambda,
		columns: append([]string(nil), a.Columns...),
		weights: append([]float64(nil), a.Weights...),
		means:   append([]float64(nil), a.Means...),
		rows:    a.Rows,
	}, nil
}

// Fit solves the regularized normal equations for x against y.
func (r *LeastSquares) Fit(_ context.Context, x *feature.Matrix, y []float64) error {
	rows, cols := x.Rows(), x.Cols()
	if rows == 0 {
		return errs.Model("fit", errors.New("empty training set"))
	}
	if len(y) != rows {
		return errs.Model("fit", fmt.Errorf("target has %d rows, features have %d", len(y), rows))
	}

	means := columnMeans(x)

	// Design matrix with a leading intercept column, NaN cells imputed.
	d := cols + 1
	design := mat.NewDense(rows, d, nil)
	for i := 0; i < rows; i++ {
		design.Set(i, 0, 1)
		for j := 0; j < cols; j++ {
			design.Set(i, j+1, impute(x.At(i, j), means[j]))
		}
	}
	target := mat.NewVecDense(rows, append([]float64(nil), y...))

	var gram mat.Dense
	gram.Mul(design.T(), design)

	lambda := r.Lambda
	if lambda <= 0 {
		lambda = defaultLambda
	}
	sym := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			sym.SetSym(i, j, gram.At(i, j))
		}
		sym.SetSym(i, i, gram.At(i, i)+lambda)
	}

	var chol mat.Cholesky
	if !chol.Factorize(sym) {
		return errs.Model("fit", errors.New("design matrix is not positive definite"))
	}

	var rhs mat.VecDense
	rhs.MulVec(design.T(), target)
	var solution mat.VecDense
	if err := chol.SolveVecTo(&solution, &rhs); err != nil {
		return errs.Model("fit", err)
	}

	r.columns = append([]string(nil), x.Names...)
	r.means = means
	r.rows = rows
	r.weights = make([]float64, d)
	for i := 0; i < d; i++ {
		r.weights[i] = solution.AtVec(i)
	}
	return nil
}

// Predict returns one duration per row of x, in row order.
func (r *LeastSquares) Predict(_ context.Context, x *feature.Matrix) ([]float64, error) {
	if r.weights == nil {
		return nil, errs.Model("predict", errors.New("regressor not fitted"))
	}
	if err := r.checkColumns(x.Names); err != nil {
		return nil, err
	}

	predictions := make([]float64, x.Rows())
	for i := range predictions {
		sum := r.weights[0]
		for j := 0; j < x.Cols(); j++ {
			sum += r.weights[j+1] * impute(x.At(i, j), r.means[j])
		}
		predictions[i] = sum
	}
	return predictions, nil
}

// Artifact exports the fitted state. TrainedAt is left for the caller.
func (r *LeastSquares) Artifact() *Artifact {
	return &Artifact{
		Algorithm: AlgorithmLeastSquares,
		Columns:   append([]string(nil), r.columns...),
		Weights:   append([]float64(nil), r.weights...),
		Means:     append([]float64(nil), r.means...),
		Rows:      r.rows,
	}
}

func (r *LeastSquares) checkColumns(names []string) error {
	if len(names) != len(r.columns) {
		return errs.Model("predict", fmt.Errorf("feature shape mismatch: fitted on %d columns, got %d",
			len(r.columns), len(names)))
	}
	for i, name := range names {
		if name != r.columns[i] {
			return errs.Model("predict", fmt.Errorf("feature mismatch at position %d: fitted on %q, got %q",
				i, r.columns[i], name))
		}
	}
	return nil
}

func columnMeans(x *feature.Matrix) []float64 {
	means := make([]float64, x.Cols())
	for j := 0; j < x.Cols(); j++ {
		var sum float64
		var n int
		for i := 0; i < x.Rows(); i++ {
			v := x.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			sum += v
			n++
		}
		if n > 0 {
			means[j] = sum / float64(n)
		}
	}
	return means
}

func impute(v, mean float64) float64 {
	if math.IsNaN(v) {
		return mean
	}
	return v
}
