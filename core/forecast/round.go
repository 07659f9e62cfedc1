package forecast

import "math"

// roundCount rounds half away from zero and rejects values outside int64.
func roundCount(year int, v float64) (int64, error) {
	r := math.Round(v)
	if math.IsNaN(r) || r >= math.MaxInt64 || r < math.MinInt64 {
		return 0, &NumericOverflowError{Year: year, Value: v}
	}
	return int64(r), nil
}
