package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/regcast/core/metrics"
)

// PromSink records forecast requests in Prometheus metrics.
type PromSink struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rSquared *prometheus.GaugeVec
	loads    *prometheus.CounterVec
	rows     prometheus.Gauge
}

// NewPromSink registers forecast metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "forecast_requests_total",
		Help: "Total number of forecast requests",
	}, []string{"category", "method", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "forecast_duration_seconds",
		Help:    "Time spent serving a forecast request, dataset load included",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	rSquared := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "forecast_linear_r_squared",
		Help: "Coefficient of determination of the last linear fit per category",
	}, []string{"category"})
	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dataset_loads_total",
		Help: "Dataset loads by cache usage and success",
	}, []string{"cached", "success"})
	rows := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dataset_rows",
		Help: "Number of rows in the last loaded dataset",
	})

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if rSquared, err = register(reg, rSquared); err != nil {
		return nil, err
	}
	if loads, err = register(reg, loads); err != nil {
		return nil, err
	}
	if rows, err = register(reg, rows); err != nil {
		return nil, err
	}
	return &PromSink{requests: requests, duration: duration, rSquared: rSquared, loads: loads, rows: rows}, nil
}

// register returns the already registered collector when c was registered
// before, so several sinks can share the default registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

// RecordForecast counts the request and observes its duration.
func (s *PromSink) RecordForecast(ev coremetrics.ForecastEvent) error {
	method := ""
	if ev.Outcome == coremetrics.OutcomeOK {
		method = ev.Method.String()
		s.rSquared.WithLabelValues(ev.Category).Set(ev.Fit.RSquared)
	}
	s.requests.WithLabelValues(ev.Category, method, string(ev.Outcome)).Inc()
	s.duration.WithLabelValues(string(ev.Outcome)).Observe(ev.Duration.Seconds())
	return nil
}

// RecordDatasetLoad counts dataset loads and tracks the row count.
func (s *PromSink) RecordDatasetLoad(ev coremetrics.DatasetEvent) error {
	s.loads.WithLabelValues(strconv.FormatBool(ev.Cached), strconv.FormatBool(ev.Err == nil)).Inc()
	if ev.Err == nil {
		s.rows.Set(float64(ev.Records))
	}
	return nil
}
