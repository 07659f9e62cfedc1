package forecast

import "github.com/kilianp07/regcast/core/model"

// Filter keeps the points at or after targetYear, in their original order.
// The result is never nil so it encodes as an empty list.
func Filter(points []model.ForecastPoint, targetYear int) []model.ForecastPoint {
	out := make([]model.ForecastPoint, 0, len(points))
	for _, p := range points {
		if p.Year >= targetYear {
			out = append(out, p)
		}
	}
	return out
}
