package forecast

import (
	"fmt"
	"math"

	"github.com/kilianp07/regcast/core/model"
)

// MinBlendSize is the sample size from which the Newton estimate is blended in.
const MinBlendSize = 3

// Estimates is the input of Blend. It is either LinearOnly or Blended.
type Estimates interface {
	Method() model.Method
	sealed()
}

// LinearOnly carries the linear forecast alone.
type LinearOnly struct {
	Linear []model.ForecastPoint
}

// Method implements Estimates.
func (LinearOnly) Method() model.Method { return model.MethodLinear }
func (LinearOnly) sealed()              {}

// Blended carries both forecasts over the same target years, in the same order.
type Blended struct {
	Linear []model.ForecastPoint
	Newton []model.ForecastPoint
}

// Method implements Estimates.
func (Blended) Method() model.Method { return model.MethodBlended }
func (Blended) sealed()              {}

// Blend merges the estimates into one point per target year. Blended points
// are paired by index; the years at each index must match.
func Blend(e Estimates) ([]model.ForecastPoint, error) {
	switch v := e.(type) {
	case LinearOnly:
		out := make([]model.ForecastPoint, len(v.Linear))
		copy(out, v.Linear)
		return out, nil
	case Blended:
		if len(v.Linear) != len(v.Newton) {
			return nil, fmt.Errorf("%w: %d linear points, %d newton points", ErrMisaligned, len(v.Linear), len(v.Newton))
		}
		out := make([]model.ForecastPoint, len(v.Linear))
		for i, l := range v.Linear {
			n := v.Newton[i]
			if l.Year != n.Year {
				return nil, fmt.Errorf("%w: index %d has years %d and %d", ErrMisaligned, i, l.Year, n.Year)
			}
			avg := math.Round((float64(l.Count) + float64(n.Count)) / 2)
			out[i] = model.ForecastPoint{Year: l.Year, Count: int64(avg)}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported estimates %T", e)
	}
}
