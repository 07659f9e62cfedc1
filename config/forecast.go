package config

import (
	"fmt"

	"github.com/kilianp07/regcast/core/forecast"
	"github.com/kilianp07/regcast/core/model"
)

// DefaultHorizonStart is the first forecast year when none is configured.
const DefaultHorizonStart = 2024

// ForecastConfig defines the forecast horizon and presentation.
type ForecastConfig struct {
	// HorizonStart is the first forecast year, 2024 when unset. Zero starts
	// the horizon the year after the latest observation.
	HorizonStart *int `json:"horizon_start"`
	// HorizonYears is the number of consecutive forecast years.
	HorizonYears int `json:"horizon_years"`
	// Language selects method labels: "en" or "id".
	Language string `json:"language"`
	// MinBlendSize is the sample size from which Newton is blended in.
	MinBlendSize int `json:"min_blend_size"`
}

// SetDefaults applies the original 2024-2028 horizon.
func (c *ForecastConfig) SetDefaults() {
	if c.HorizonStart == nil {
		start := DefaultHorizonStart
		c.HorizonStart = &start
	}
	if c.HorizonYears <= 0 {
		c.HorizonYears = 5
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.MinBlendSize <= 0 {
		c.MinBlendSize = forecast.MinBlendSize
	}
}

// Validate checks the horizon and language.
func (c ForecastConfig) Validate() error {
	if c.HorizonStart != nil && *c.HorizonStart < 0 {
		return fmt.Errorf("forecast.horizon_start must not be negative")
	}
	if c.HorizonYears <= 0 {
		return fmt.Errorf("forecast.horizon_years must be positive")
	}
	if c.MinBlendSize < forecast.MinNewtonSize {
		return fmt.Errorf("forecast.min_blend_size must be at least %d", forecast.MinNewtonSize)
	}
	for _, l := range forecast.Languages() {
		if l == c.Language {
			return nil
		}
	}
	return fmt.Errorf("forecast.language %q not supported (known: %v)", c.Language, forecast.Languages())
}

// Horizon returns the target years given the latest observed year.
func (c ForecastConfig) Horizon(lastObserved int) []int {
	start := DefaultHorizonStart
	if c.HorizonStart != nil {
		start = *c.HorizonStart
	}
	if start == 0 {
		start = lastObserved + 1
	}
	return model.Years(start, c.HorizonYears)
}

// EngineOptions converts the section to engine options.
func (c ForecastConfig) EngineOptions() forecast.Options {
	return forecast.Options{Language: c.Language, MinBlendSize: c.MinBlendSize}
}
