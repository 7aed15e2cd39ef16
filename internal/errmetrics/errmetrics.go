// Package errmetrics computes the interpolation error metrics stored in a
// results table: RMSE, MAE, MSE and percentage error between an original
// field and its interpolated counterpart.
package errmetrics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// float32Epsilon guards the percentage error against near-zero originals.
// The grids are single precision, so the float32 machine epsilon is used.
const float32Epsilon = 1.1920929e-07

// Metric column names as written to a results table.
const (
	ColRMSE   = "RMSE"
	ColMAE    = "MAE"
	ColMSE    = "MSE"
	ColPERROR = "PERROR"
)

// ErrLengthMismatch is returned when the two series differ in length.
var ErrLengthMismatch = errors.New("series length mismatch")

// Options controls which points are considered undefined.
type Options struct {
	UndefOriginal  float64
	UndefPredicted float64
}

// Metrics is the set of error metrics for one comparison.
type Metrics struct {
	RMSE            float64
	MAE             float64
	MSE             float64
	PercentageError float64 // in percent
	Count           int     // number of defined points compared
}

// Values maps the metrics to their results-table column names.
func (m Metrics) Values() map[string]float64 {
	return map[string]float64{
		ColRMSE:   m.RMSE,
		ColMAE:    m.MAE,
		ColMSE:    m.MSE,
		ColPERROR: m.PercentageError,
	}
}

// Compute compares predicted against original point by point. Points where
// either value is NaN or equals its undefined sentinel are skipped. With no
// defined points all metrics are zero.
func Compute(original, predicted []float64, opts Options) (Metrics, error) {
	if len(original) != len(predicted) {
		return Metrics{}, fmt.Errorf("%w: original has %d values, predicted has %d", ErrLengthMismatch, len(original), len(predicted))
	}

	diffs := make([]float64, 0, len(original))
	relSum := 0.0
	for i, orig := range original {
		pred := predicted[i]
		if undefined(orig, opts.UndefOriginal) || undefined(pred, opts.UndefPredicted) {
			continue
		}
		d := orig - pred
		diffs = append(diffs, d)
		if math.Abs(orig) > float32Epsilon {
			relSum += math.Abs(d) / math.Abs(orig)
		}
	}

	var m Metrics
	m.Count = len(diffs)
	if m.Count == 0 {
		return m, nil
	}
	n := float64(m.Count)
	m.MSE = floats.Dot(diffs, diffs) / n
	m.RMSE = math.Sqrt(m.MSE)
	m.MAE = floats.Norm(diffs, 1) / n
	m.PercentageError = relSum / n * 100
	return m, nil
}

func undefined(v, undef float64) bool {
	return math.IsNaN(v) || v == undef
}
