package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/regcast/core/metrics"
	"github.com/kilianp07/regcast/dataset"
	"github.com/kilianp07/regcast/infra/mqtt"
)

type Config struct {
	Dataset  dataset.Config `json:"dataset"`
	Forecast ForecastConfig `json:"forecast"`
	Server   ServerConfig   `json:"server"`
	Metrics  metrics.Config `json:"metrics"`
	History  HistoryConfig  `json:"history"`
	Logging  LoggingConfig  `json:"logging"`
	MQTT     mqtt.Config    `json:"mqtt"`
	Sentry   SentryConfig   `json:"sentry"`
}

// Load reads the file at path and applies K_ prefixed environment
// overrides, K_SERVER__ADDR setting server.addr for instance. An empty path
// loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Dataset.SetDefaults()
	c.Forecast.SetDefaults()
	c.Server.SetDefaults()
	c.History.SetDefaults()
	c.Logging.SetDefaults()
	c.MQTT.SetDefaults()
	c.Sentry.SetDefaults()
}

// Validate checks every section and reports all failures at once.
func (c Config) Validate() error {
	return errors.Join(
		c.Dataset.Validate(),
		c.Forecast.Validate(),
		c.Server.Validate(),
		c.Metrics.Validate(),
		c.History.Validate(),
		c.Logging.Validate(),
		c.MQTT.Validate(),
		c.Sentry.Validate(),
	)
}
