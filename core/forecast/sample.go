package forecast

import (
	"sort"

	"github.com/kilianp07/regcast/core/model"
)

// Sample is a validated, year-sorted set of observations. The zero value is
// an empty sample; use NewSample to build one.
type Sample struct {
	obs []model.Observation
}

// NewSample copies and sorts obs by year. It rejects empty input, negative
// counts and repeated years.
func NewSample(obs []model.Observation) (Sample, error) {
	if len(obs) == 0 {
		return Sample{}, &NoDataError{}
	}
	cp := make([]model.Observation, len(obs))
	copy(cp, obs)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Year < cp[j].Year })
	for i, o := range cp {
		if o.Count < 0 {
			return Sample{}, &InvalidObservationError{Year: o.Year, Reason: "negative count"}
		}
		if i > 0 && cp[i-1].Year == o.Year {
			return Sample{}, &DuplicateAbscissaError{Year: o.Year}
		}
	}
	return Sample{obs: cp}, nil
}

// Len returns the number of observations.
func (s Sample) Len() int { return len(s.obs) }

// Observations returns a copy of the observations in year order.
func (s Sample) Observations() []model.Observation {
	cp := make([]model.Observation, len(s.obs))
	copy(cp, s.obs)
	return cp
}

// Years returns the abscissae as floats.
func (s Sample) Years() []float64 {
	xs := make([]float64, len(s.obs))
	for i, o := range s.obs {
		xs[i] = float64(o.Year)
	}
	return xs
}

// Counts returns the ordinates as floats.
func (s Sample) Counts() []float64 {
	ys := make([]float64, len(s.obs))
	for i, o := range s.obs {
		ys[i] = float64(o.Count)
	}
	return ys
}

// Last returns the most recent year, or 0 for an empty sample.
func (s Sample) Last() int {
	if len(s.obs) == 0 {
		return 0
	}
	return s.obs[len(s.obs)-1].Year
}
