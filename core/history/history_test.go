package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueryMatch(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	r := Record{Category: "Bus", Timestamp: now}

	assert.True(t, Query{}.Match(r))
	assert.True(t, Query{Category: "Bus"}.Match(r))
	assert.False(t, Query{Category: "Truk"}.Match(r))
	assert.False(t, Query{Start: now.Add(time.Minute)}.Match(r))
	assert.False(t, Query{End: now.Add(-time.Minute)}.Match(r))
	assert.True(t, Query{Start: now.Add(-time.Hour), End: now.Add(time.Hour)}.Match(r))
}
