package dataset

import (
	"fmt"

	"github.com/kilianp07/regcast/auth"
)

// DefaultURL is the published registration dataset.
const DefaultURL = "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/jmlh_kndrn_brmtr_brdskn_jns_kndrn_d_kt_tskmly-4QBEOLKgcwHboT01ehrH3QsMwC9eXb.csv"

// Config describes where the historical dataset lives and how to read it.
type Config struct {
	// URL of the CSV file. Ignored when Path is set.
	URL string `json:"url"`
	// Path of a local CSV file.
	Path            string `json:"path"`
	TimeoutSeconds  int    `json:"timeout_seconds"`
	MaxRetries      int    `json:"max_retries"`
	BackoffMS       int    `json:"backoff_ms"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds"`

	YearColumn     string `json:"year_column"`
	CategoryColumn string `json:"category_column"`
	CountColumn    string `json:"count_column"`
	// AllCategory is the pseudo category that sums every category per year.
	AllCategory string `json:"all_category"`

	OAuth2 auth.Conf `json:"oauth2"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.URL == "" && c.Path == "" {
		c.URL = DefaultURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 2
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 200
	}
	if c.YearColumn == "" {
		c.YearColumn = "tahun"
	}
	if c.CategoryColumn == "" {
		c.CategoryColumn = "jenis_kendaraan"
	}
	if c.CountColumn == "" {
		c.CountColumn = "jumlah_kendaraan"
	}
	if c.AllCategory == "" {
		c.AllCategory = "Semua Kendaraan"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.URL == "" && c.Path == "" {
		return fmt.Errorf("dataset: url or path is required")
	}
	if c.YearColumn == c.CategoryColumn || c.YearColumn == c.CountColumn || c.CategoryColumn == c.CountColumn {
		return fmt.Errorf("dataset: column names must be distinct")
	}
	return nil
}
