// Package metrics defines how forecast requests are observed. A MetricsSink
// receives one ForecastEvent per request; sinks are created by name from
// configuration and combined with NewMultiSink when several are listed.
package metrics
