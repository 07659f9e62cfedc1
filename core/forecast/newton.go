package forecast

import (
	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/regcast/core/model"
)

// MinNewtonSize is the smallest sample the divided-difference table accepts.
const MinNewtonSize = 2

// NewtonFit is the interpolating polynomial through every observation in
// Newton form.
type NewtonFit struct {
	// Coefficients is the top row of the divided-difference table.
	Coefficients []float64 `json:"coefficients"`
	// Table holds the triangular divided-difference table. Row i has n-i
	// entries; column j is the j-th order difference.
	Table [][]float64 `json:"dividedDifferencesTable"`

	nodes []float64
}

// NewtonEstimate is the output of the Newton interpolator.
type NewtonEstimate struct {
	Fit    NewtonFit
	Points []model.ForecastPoint
}

// FitNewton builds the divided-difference table for s.
func FitNewton(s Sample) (NewtonFit, error) {
	n := s.Len()
	if n < MinNewtonSize {
		return NewtonFit{}, &InsufficientDataError{Estimator: "newton", Need: MinNewtonSize, Have: n}
	}
	xs, ys := s.Years(), s.Counts()

	coef := mat.NewDense(n, n, nil)
	coef.SetCol(0, ys)
	for j := 1; j < n; j++ {
		for i := 0; i < n-j; i++ {
			den := xs[i+j] - xs[i]
			if den == 0 {
				return NewtonFit{}, &DuplicateAbscissaError{Year: int(xs[i])}
			}
			coef.Set(i, j, (coef.At(i+1, j-1)-coef.At(i, j-1))/den)
		}
	}

	table := make([][]float64, n)
	for i := range table {
		table[i] = append([]float64(nil), coef.RawRowView(i)[:n-i]...)
	}
	return NewtonFit{
		Coefficients: mat.Row(nil, 0, coef),
		Table:        table,
		nodes:        xs,
	}, nil
}

// At evaluates the polynomial at t. The basis product is carried from one
// degree to the next, so each evaluation is linear in the sample size.
func (f NewtonFit) At(t float64) float64 {
	if len(f.Coefficients) == 0 {
		return 0
	}
	result := f.Coefficients[0]
	prod := 1.0
	for j := 1; j < len(f.Coefficients); j++ {
		prod *= t - f.nodes[j-1]
		result += f.Coefficients[j] * prod
	}
	return result
}

// Newton fits the interpolating polynomial and predicts a rounded count for
// every target year. Far extrapolation is expected to oscillate; it is not
// damped here.
func Newton(s Sample, years []int) (NewtonEstimate, error) {
	fit, err := FitNewton(s)
	if err != nil {
		return NewtonEstimate{}, err
	}
	pts := make([]model.ForecastPoint, len(years))
	for i, y := range years {
		c, err := roundCount(y, fit.At(float64(y)))
		if err != nil {
			return NewtonEstimate{}, err
		}
		pts[i] = model.ForecastPoint{Year: y, Count: c}
	}
	return NewtonEstimate{Fit: fit, Points: pts}, nil
}
