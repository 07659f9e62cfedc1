package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/regcast/core/model"
)

// MinLinearSize is the smallest sample a least squares line can be fitted to.
const MinLinearSize = 2

// LinearEstimate is the output of the linear estimator.
type LinearEstimate struct {
	Fit    model.LinearFit
	Points []model.ForecastPoint
}

// FitLinear regresses count on year by ordinary least squares.
//
// R² is the squared Pearson correlation. A sample whose counts are all equal
// has no variance to explain and reports 0.
func FitLinear(s Sample) (model.LinearFit, error) {
	if s.Len() < MinLinearSize {
		return model.LinearFit{}, &InsufficientDataError{Estimator: "linear", Need: MinLinearSize, Have: s.Len()}
	}
	xs, ys := s.Years(), s.Counts()
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	r := stat.Correlation(xs, ys, nil)
	r2 := r * r
	if math.IsNaN(r2) {
		r2 = 0
	}
	return model.LinearFit{Slope: slope, Intercept: intercept, RSquared: math.Min(r2, 1)}, nil
}

// Linear fits the trend and predicts a rounded count for every target year.
func Linear(s Sample, years []int) (LinearEstimate, error) {
	fit, err := FitLinear(s)
	if err != nil {
		return LinearEstimate{}, err
	}
	pts := make([]model.ForecastPoint, len(years))
	for i, y := range years {
		c, err := roundCount(y, fit.At(y))
		if err != nil {
			return LinearEstimate{}, err
		}
		pts[i] = model.ForecastPoint{Year: y, Count: c}
	}
	return LinearEstimate{Fit: fit, Points: pts}, nil
}
