package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the IRI-2020 service and CLI
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8981"`

	// Reference data
	DataDir         string        `env:"IRI_DATA_DIR,default=./data"`
	ReferenceURL    string        `env:"IRI_REFERENCE_URL,default=https://chain-new.chain-project.net/echaim_downloads/"`
	ReferenceMaxAge time.Duration `env:"IRI_REFERENCE_MAX_AGE,default=24h"`
	FetchTimeout    time.Duration `env:"IRI_FETCH_TIMEOUT,default=15s"`
	SkipDataCheck   bool          `env:"IRI_SKIP_DATA_CHECK,default=false"`

	// Model settings
	SettingsFile  string `env:"IRI_SETTINGS_FILE"`
	WatchSettings bool   `env:"IRI_WATCH_SETTINGS,default=true"`
	MaxAltitudes  int    `env:"MAX_ALTITUDES,default=2000"`

	// Local testing configuration
	MockupMode bool `env:"MOCKUP_MODE,default=false"`

	// Request throttling; RateLimit 0 disables it
	RateLimit float64 `env:"RATE_LIMIT,default=0"`
	RateBurst int     `env:"RATE_BURST,default=5"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=auto"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no component can work with
func (c *Config) Validate() error {
	if c.MaxAltitudes <= 0 {
		return fmt.Errorf("MAX_ALTITUDES must be positive, got %d", c.MaxAltitudes)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT must not be negative, got %g", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return fmt.Errorf("RATE_BURST must be positive when RATE_LIMIT is set, got %d", c.RateBurst)
	}
	if c.ReferenceMaxAge <= 0 {
		return fmt.Errorf("IRI_REFERENCE_MAX_AGE must be positive, got %s", c.ReferenceMaxAge)
	}
	return nil
}

// LoadDotEnv loads variables from .env files without overriding the ones
// already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}
