package config

import "fmt"

// ServerConfig defines the HTTP listeners.
type ServerConfig struct {
	// Addr is the API listen address.
	Addr string `json:"addr"`
	// MetricsAddr exposes /metrics. Empty disables the endpoint.
	MetricsAddr         string `json:"metrics_addr"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeoutSeconds <= 0 {
		c.ReadTimeoutSeconds = 10
	}
	if c.WriteTimeoutSeconds <= 0 {
		c.WriteTimeoutSeconds = 30
	}
}

func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.MetricsAddr != "" && c.MetricsAddr == c.Addr {
		return fmt.Errorf("server.metrics_addr must differ from server.addr")
	}
	return nil
}
