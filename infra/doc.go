// Package infra holds the adapters behind the core interfaces: zerolog
// logging, Prometheus and InfluxDB metrics sinks, forecast history stores,
// the MQTT forecast publisher and Sentry monitoring.
package infra
