package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corehistory "github.com/kilianp07/regcast/core/history"
	"github.com/kilianp07/regcast/core/model"
)

func records() []corehistory.Record {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []corehistory.Record{
		{ID: "a", Timestamp: base, Category: "Bus", TargetYear: 2024, SampleSize: 5, Method: "blended",
			Forecast: []model.ForecastPoint{{Year: 2024, Count: 10}}},
		{ID: "b", Timestamp: base.Add(time.Hour), Category: "Truk", TargetYear: 2025, SampleSize: 2, Method: "linear"},
		{ID: "c", Timestamp: base.Add(2 * time.Hour), Category: "Bus", TargetYear: 2026, Error: "boom"},
	}
}

func exerciseStore(t *testing.T, store corehistory.Store) {
	t.Helper()
	ctx := context.Background()
	for _, r := range records() {
		require.NoError(t, store.Append(ctx, r))
	}

	out, err := store.Query(ctx, corehistory.Query{Category: "Bus"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "c", out[0].ID)
	assert.Equal(t, "a", out[1].ID)
	assert.Equal(t, int64(10), out[1].Forecast[0].Count)

	out, err = store.Query(ctx, corehistory.Query{Limit: 1})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "c", out[0].ID)

	base := records()[0].Timestamp
	out, err = store.Query(ctx, corehistory.Query{Start: base.Add(30 * time.Minute), End: base.Add(90 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].ID)
}

func TestJSONLStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	store, err := NewJSONLStore(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	exerciseStore(t, store)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	out, err := store.Query(context.Background(), corehistory.Query{})
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	exerciseStore(t, store)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open("jsonl", filepath.Join(dir, "h.jsonl"))
	require.NoError(t, err)
	assert.IsType(t, &JSONLStore{}, s)

	s, err = Open("none", "")
	require.NoError(t, err)
	assert.IsType(t, corehistory.NopStore{}, s)

	_, err = Open("bogus", "")
	assert.Error(t, err)
}
