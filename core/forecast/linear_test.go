package forecast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/regcast/core/model"
)

func mustSample(t *testing.T, obs ...model.Observation) Sample {
	t.Helper()
	s, err := NewSample(obs)
	require.NoError(t, err)
	return s
}

func TestLinear_TwoPointsPassThroughBoth(t *testing.T) {
	s := mustSample(t, model.Observation{Year: 2019, Count: 100}, model.Observation{Year: 2020, Count: 120})

	est, err := Linear(s, []int{2021})
	require.NoError(t, err)

	assert.InDelta(t, 20, est.Fit.Slope, 1e-9)
	assert.InDelta(t, -40280, est.Fit.Intercept, 1e-6)
	assert.InDelta(t, 100, est.Fit.At(2019), 1e-6)
	assert.InDelta(t, 120, est.Fit.At(2020), 1e-6)
	assert.Equal(t, []model.ForecastPoint{{Year: 2021, Count: 140}}, est.Points)
}

func TestLinear_ColinearRSquaredIsOne(t *testing.T) {
	s := mustSample(t,
		model.Observation{Year: 2020, Count: 100},
		model.Observation{Year: 2021, Count: 110},
		model.Observation{Year: 2022, Count: 120},
	)
	est, err := Linear(s, []int{2023})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, est.Fit.RSquared, 1e-12)
	assert.Equal(t, int64(130), est.Points[0].Count)
}

func TestLinear_RSquaredInUnitInterval(t *testing.T) {
	samples := [][]model.Observation{
		{{Year: 2015, Count: 10}, {Year: 2016, Count: 50}, {Year: 2017, Count: 20}, {Year: 2019, Count: 90}},
		{{Year: 2000, Count: 5}, {Year: 2010, Count: 0}, {Year: 2011, Count: 7}},
		{{Year: 2019, Count: 1000}, {Year: 2020, Count: 800}, {Year: 2021, Count: 900}, {Year: 2022, Count: 300}, {Year: 2023, Count: 1200}},
	}
	for _, obs := range samples {
		fit, err := FitLinear(mustSample(t, obs...))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, fit.RSquared, 0.0)
		assert.LessOrEqual(t, fit.RSquared, 1.0)
	}
}

func TestLinear_ConstantCountsReportZeroRSquared(t *testing.T) {
	s := mustSample(t, model.Observation{Year: 2020, Count: 7}, model.Observation{Year: 2021, Count: 7})
	fit, err := FitLinear(s)
	require.NoError(t, err)
	assert.InDelta(t, 0, fit.Slope, 1e-12)
	assert.Equal(t, 0.0, fit.RSquared)
}

func TestLinear_InsufficientData(t *testing.T) {
	s := mustSample(t, model.Observation{Year: 2020, Count: 7})
	_, err := Linear(s, []int{2021})
	var ide *InsufficientDataError
	require.True(t, errors.As(err, &ide))
	assert.Equal(t, 2, ide.Need)
	assert.Equal(t, 1, ide.Have)
	assert.Equal(t, "linear", ide.Estimator)
}

func TestLinear_RoundsHalfAwayFromZero(t *testing.T) {
	// slope 0.5 through (2000, 0): 2001 -> 0.5, 2003 -> 1.5
	s := mustSample(t, model.Observation{Year: 2000, Count: 0}, model.Observation{Year: 2002, Count: 1})
	est, err := Linear(s, []int{2001, 2003})
	require.NoError(t, err)
	assert.Equal(t, int64(1), est.Points[0].Count)
	assert.Equal(t, int64(2), est.Points[1].Count)
}
