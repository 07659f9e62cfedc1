package metrics

import (
	"time"

	"github.com/kilianp07/regcast/core/model"
)

// Outcome classifies how a forecast request ended.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeNoData       Outcome = "no_data"
	OutcomeInvalidInput Outcome = "invalid_input"
	OutcomeSourceError  Outcome = "source_error"
	OutcomeError        Outcome = "error"
)

// ForecastEvent describes one forecast request.
type ForecastEvent struct {
	RequestID  string
	Category   string
	TargetYear int
	SampleSize int
	Method     model.Method
	Outcome    Outcome
	Fit        model.LinearFit
	Points     []model.ForecastPoint
	Duration   time.Duration
	Time       time.Time
}

// MetricsSink records forecast events for observability purposes.
type MetricsSink interface {
	RecordForecast(ev ForecastEvent) error
}

// DatasetEvent describes one load of the historical dataset.
type DatasetEvent struct {
	Source   string
	Records  int
	Cached   bool
	Duration time.Duration
	Err      error
	Time     time.Time
}

// DatasetRecorder is implemented by sinks able to record dataset loads.
type DatasetRecorder interface {
	RecordDatasetLoad(ev DatasetEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordForecast(ForecastEvent) error   { return nil }
func (NopSink) RecordDatasetLoad(DatasetEvent) error { return nil }

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordForecast forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordForecast(ev ForecastEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordForecast(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordDatasetLoad forwards the event to the sinks that support it.
func (m *MultiSink) RecordDatasetLoad(ev DatasetEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(DatasetRecorder); ok {
			if err := rec.RecordDatasetLoad(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
