// Package config defines service configuration and its defaults.
package config

import (
	"runtime"

	"github.com/okian/presence/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// WindowYears is the length of the trailing window.
	WindowYears int `koanf:"window_years"`

	// ThresholdDays is the minimum days present for eligibility.
	ThresholdDays int `koanf:"threshold_days"`

	// TrendRadiusDays is the default half-width of GET /trend.
	TrendRadiusDays int `koanf:"trend_radius_days"`

	// MaxTrendRadius caps GET /trend?radius.
	MaxTrendRadius int `koanf:"max_trend_radius"`

	// ScanChunkDays is the number of days above which a trend scan is split
	// into chunks of this size and evaluated concurrently.
	ScanChunkDays int `koanf:"scan_chunk_days"`

	// ScanWorkers bounds the goroutines used by a chunked scan.
	ScanWorkers int `koanf:"scan_workers"`

	// IdempotencySize bounds the remembered Idempotency-Key values.
	IdempotencySize int `koanf:"idempotency_size"`

	// InitialData seeds the store with a compact share string at startup.
	InitialData string `koanf:"initial_data"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		WindowYears:     model.DefaultWindowYears,
		ThresholdDays:   model.DefaultThresholdDays,
		TrendRadiusDays: 90,
		MaxTrendRadius:  3660,
		ScanChunkDays:   366,
		ScanWorkers:     runtime.NumCPU(),
		IdempotencySize: 10_000,
	}
}

// WindowSpec returns the configured window.
func (c *Config) WindowSpec() model.WindowSpec {
	return model.WindowSpec{WindowYears: c.WindowYears, ThresholdDays: c.ThresholdDays}
}
