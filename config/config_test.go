package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `dataset:
  path: "data.csv"
  cache_ttl_seconds: 60
forecast:
  horizon_start: 2025
  horizon_years: 3
  language: "id"
server:
  addr: ":9000"
  metrics_addr: ":9100"
metrics:
  sinks:
    - type: "nop"
history:
  backend: "sqlite"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  qos: 1
sentry:
  traces_sample_rate: 0.2
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"dataset.path", cfg.Dataset.Path, "data.csv"},
		{"dataset.url", cfg.Dataset.URL, ""},
		{"dataset.cache_ttl_seconds", cfg.Dataset.CacheTTLSeconds, 60},
		{"dataset.year_column", cfg.Dataset.YearColumn, "tahun"},
		{"forecast.horizon_start", *cfg.Forecast.HorizonStart, 2025},
		{"forecast.horizon_years", cfg.Forecast.HorizonYears, 3},
		{"forecast.language", cfg.Forecast.Language, "id"},
		{"forecast.min_blend_size", cfg.Forecast.MinBlendSize, 3},
		{"server.addr", cfg.Server.Addr, ":9000"},
		{"server.metrics_addr", cfg.Server.MetricsAddr, ":9100"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"history.backend", cfg.History.Backend, "sqlite"},
		{"history.path", cfg.History.Path, "forecasts.db"},
		{"logging.level", cfg.Logging.Level, "info"},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.qos", cfg.MQTT.QoS, byte(1)},
		{"mqtt.topic_prefix", cfg.MQTT.TopicPrefix, "regcast"},
		{"sentry.environment", cfg.Sentry.Environment, "production"},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"server": {"addr": ":7000"}, "logging": {"level": "debug"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.Dataset.URL)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeFile(t, "config.yaml", "server:\n  addr: \":9000\"\n")
	t.Setenv("K_SERVER__ADDR", ":9999")
	t.Setenv("K_FORECAST__HORIZON_YEARS", "7")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 7, cfg.Forecast.HorizonYears)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Forecast.HorizonYears)
	assert.Equal(t, []int{2024, 2025, 2026, 2027, 2028}, cfg.Forecast.Horizon(2022))
	assert.Equal(t, "jsonl", cfg.History.Backend)
	assert.False(t, cfg.MQTT.Enabled)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"language":  "forecast:\n  language: \"fr\"\n",
		"history":   "history:\n  backend: \"postgres\"\n",
		"log level": "logging:\n  level: \"loud\"\n",
		"mqtt":      "mqtt:\n  enabled: true\n",
		"sentry":    "sentry:\n  traces_sample_rate: 2\n",
		"metrics":   "metrics:\n  sinks:\n    - conf: {}\n",
		"server":    "server:\n  addr: \":80\"\n  metrics_addr: \":80\"\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", data))
			assert.Error(t, err)
		})
	}

	_, err := Load(writeFile(t, "config.toml", ""))
	assert.Error(t, err)
}

func TestForecastHorizon(t *testing.T) {
	start := 2026
	c := ForecastConfig{HorizonStart: &start, HorizonYears: 3}
	assert.Equal(t, []int{2026, 2027, 2028}, c.Horizon(2022))

	auto := 0
	c = ForecastConfig{HorizonStart: &auto, HorizonYears: 2}
	assert.Equal(t, []int{2023, 2024}, c.Horizon(2022))

	c = ForecastConfig{HorizonYears: 1}
	assert.Equal(t, []int{2024}, c.Horizon(2030))
}
