package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Observation is one historical registration count for a single category.
type Observation struct {
	Year  int
	Count int64
}

// ForecastPoint is a predicted count for a year.
type ForecastPoint struct {
	Year  int
	Count int64
}

// Counts of both observations and forecasts are encoded as JSON strings so
// consumers never lose precision on large values.
type yearCountJSON struct {
	Year  int    `json:"year"`
	Count string `json:"count"`
}

// MarshalJSON encodes the observation as {"year": 2022, "count": "123"}.
func (o Observation) MarshalJSON() ([]byte, error) {
	return json.Marshal(yearCountJSON{Year: o.Year, Count: strconv.FormatInt(o.Count, 10)})
}

// UnmarshalJSON accepts the count either as a string or as a number.
func (o *Observation) UnmarshalJSON(b []byte) error {
	year, count, err := decodeYearCount(b)
	if err != nil {
		return fmt.Errorf("observation %d: %w", year, err)
	}
	o.Year, o.Count = year, count
	return nil
}

// MarshalJSON encodes the point as {"year": 2024, "count": "123"}.
func (p ForecastPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(yearCountJSON{Year: p.Year, Count: strconv.FormatInt(p.Count, 10)})
}

// UnmarshalJSON accepts the count either as a string or as a number.
func (p *ForecastPoint) UnmarshalJSON(b []byte) error {
	year, count, err := decodeYearCount(b)
	if err != nil {
		return fmt.Errorf("forecast point %d: %w", year, err)
	}
	p.Year, p.Count = year, count
	return nil
}

func decodeYearCount(b []byte) (int, int64, error) {
	var raw struct {
		Year  int             `json:"year"`
		Count json.RawMessage `json:"count"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return 0, 0, err
	}
	if len(raw.Count) == 0 {
		return raw.Year, 0, nil
	}
	var s string
	if err := json.Unmarshal(raw.Count, &s); err != nil {
		s = string(raw.Count)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return raw.Year, 0, fmt.Errorf("invalid count %q", s)
	}
	return raw.Year, n, nil
}

// LinearFit holds the least squares diagnostics of the linear trend.
type LinearFit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"rSquared"`
}

// At evaluates the fitted line at year without rounding.
func (f LinearFit) At(year int) float64 {
	return f.Slope*float64(year) + f.Intercept
}

// Years returns n consecutive years starting at start.
func Years(start, n int) []int {
	if n <= 0 {
		return nil
	}
	ys := make([]int, n)
	for i := range ys {
		ys[i] = start + i
	}
	return ys
}
