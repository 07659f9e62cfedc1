package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/regcast/core/model"
)

func TestFilter(t *testing.T) {
	pts := []model.ForecastPoint{{Year: 2024, Count: 1}, {Year: 2025, Count: 2}, {Year: 2026, Count: 3}}

	assert.Equal(t, pts[1:], Filter(pts, 2025))
	assert.Equal(t, pts, Filter(pts, 1990))

	out := Filter(pts, 2030)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
