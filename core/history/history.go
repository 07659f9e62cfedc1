// Package history defines the log of past forecast runs.
package history

import (
	"context"
	"time"

	"github.com/kilianp07/regcast/core/model"
)

// Record captures one forecast request and its outcome.
type Record struct {
	ID         string                `json:"id"`
	Timestamp  time.Time             `json:"timestamp"`
	Category   string                `json:"category"`
	TargetYear int                   `json:"target_year"`
	SampleSize int                   `json:"sample_size"`
	Method     string                `json:"method,omitempty"`
	Fit        model.LinearFit       `json:"linear_fit"`
	Forecast   []model.ForecastPoint `json:"forecast"`
	Error      string                `json:"error,omitempty"`
}

// Query filters records. Zero values match everything; Limit <= 0 means no
// limit.
type Query struct {
	Category string
	Start    time.Time
	End      time.Time
	Limit    int
}

// Match reports whether r satisfies the time and category filters of q.
func (q Query) Match(r Record) bool {
	if q.Category != "" && r.Category != q.Category {
		return false
	}
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	return true
}

// Store persists records. Query returns the newest records first.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
