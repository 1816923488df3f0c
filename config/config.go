// Package config provides configuration management for the pricelog service
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/sljivkov/pricelog/domain"
)

// Error policies understood by the poller
const (
	PolicyAbort = "abort"
	PolicySkip  = "skip"
)

// Config holds the application configuration
type Config struct {
	PriceFile   string        `envconfig:"PRICE_FILE" default:"price.txt"` // Output file lines are appended to
	Interval    time.Duration `envconfig:"POLL_INTERVAL" default:"10s"`    // Sleep between cycles
	Url         string        `envconfig:"COINGECKO_URL"`                  // CoinGecko simple price URL
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s"`      // Per-request timeout, 0 disables
	ErrorPolicy string        `envconfig:"ERROR_POLICY" default:"abort"`   // abort or skip
	RunOnce     bool          `envconfig:"RUN_ONCE" default:"false"`       // Run a single cycle and exit
	MetricsAddr string        `envconfig:"METRICS_ADDR"`                   // Listen address for /metrics and /healthz, empty disables
	LogEnv      string        `envconfig:"LOG_ENV" default:"prod"`         // dev selects the development logger
}

// Option is a function that modifies Config
type Option func(*Config) error

// WithPriceFile overrides the output file path
func WithPriceFile(path string) Option {
	return func(c *Config) error {
		c.PriceFile = path
		return nil
	}
}

// WithInterval overrides the poll interval
func WithInterval(d time.Duration) Option {
	return func(c *Config) error {
		c.Interval = d
		return nil
	}
}

// WithErrorPolicy overrides the error policy
func WithErrorPolicy(policy string) Option {
	return func(c *Config) error {
		c.ErrorPolicy = policy
		return nil
	}
}

// validate performs validation on the config values
func (c *Config) validate() error {
	if c.PriceFile == "" {
		return fmt.Errorf("price file is required")
	}

	if c.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.Interval)
	}

	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout cannot be negative, got %s", c.HTTPTimeout)
	}

	u, err := url.ParseRequestURI(c.Url)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid CoinGecko URL: %s", c.Url)
	}

	switch c.ErrorPolicy {
	case PolicyAbort, PolicySkip:
	default:
		return fmt.Errorf("unknown error policy: %q", c.ErrorPolicy)
	}

	return nil
}

// NewConfig creates a new validated Config instance
func NewConfig(opts ...Option) (*Config, error) {
	var cfg Config

	// Process environment variables first
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Url == "" {
		cfg.Url = domain.DefaultBaseURL
	}

	// Apply user options last so they take precedence
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	// Validate the configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadEnvFile loads the first existing .env file among paths into the process
// environment. It returns the path it loaded, or "" when none exists.
func LoadEnvFile(paths ...string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return "", fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}

// SkipFailed reports whether failed assets are skipped instead of aborting the loop
func (c *Config) SkipFailed() bool {
	return c.ErrorPolicy == PolicySkip
}
