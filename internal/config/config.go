// Package config defines service configuration and how it is loaded.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogPath points at a JSON or YAML catalog file.
	CatalogPath string `koanf:"catalog_path"`

	// CatalogDB points at a SQLite catalog. It wins over CatalogPath.
	CatalogDB string `koanf:"catalog_db"`

	// FetchRatePerSec and FetchBurst bound badge page requests per host.
	FetchRatePerSec float64 `koanf:"fetch_rate_per_sec"`
	FetchBurst      int     `koanf:"fetch_burst"`

	// FetchTimeoutMS is the per-request timeout for badge pages.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// FetchConcurrency caps parallel badge fetches in one aggregation.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// BadgeCacheSize bounds the URL -> badge cache. Zero disables caching.
	BadgeCacheSize int `koanf:"badge_cache_size"`

	// UserAgent is sent with badge page requests.
	UserAgent string `koanf:"user_agent"`
}

// New returns a Config holding defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		CatalogPath:      "certifications.json",
		FetchRatePerSec:  2,
		FetchBurst:       2,
		FetchTimeoutMS:   20_000,
		FetchConcurrency: 4,
		BadgeCacheSize:   1024,
		UserAgent:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// UsesDB reports whether the catalog comes from SQLite.
func (c *Config) UsesDB() bool {
	return strings.TrimSpace(c.CatalogDB) != ""
}

// Validate checks the config for values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !c.UsesDB() && strings.TrimSpace(c.CatalogPath) == "":
		return fmt.Errorf("%w: catalog_path or catalog_db is required", ErrInvalidConfig)
	case c.FetchRatePerSec <= 0:
		return fmt.Errorf("%w: fetch_rate_per_sec must be positive", ErrInvalidConfig)
	case c.FetchBurst <= 0:
		return fmt.Errorf("%w: fetch_burst must be positive", ErrInvalidConfig)
	case c.FetchTimeoutMS <= 0:
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	case c.FetchConcurrency <= 0:
		return fmt.Errorf("%w: fetch_concurrency must be positive", ErrInvalidConfig)
	case c.BadgeCacheSize < 0:
		return fmt.Errorf("%w: badge_cache_size must not be negative", ErrInvalidConfig)
	}
	return nil
}
