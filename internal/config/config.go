// Package config defines startup-scout's configuration and loads it through viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/logger"
	"github.com/spf13/viper"
)

// Default values.
const (
	DefaultLimit           = 5
	DefaultFetchTimeout    = 10 * time.Second
	DefaultMaxBodyBytes    = 5 << 20
	DefaultRetryAttempts   = 2
	DefaultRetryDelay      = 250 * time.Millisecond
	DefaultUserAgent       = "startup-scout/1.0 (+https://github.com/jonesrussell/north-cloud)"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRunTimeout      = 90 * time.Second

	maxLimit = 100
)

// DefaultPublisherDomains are hosts never accepted as a company website.
var DefaultPublisherDomains = []string{"news.google.com"}

// Config is the root configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logger   logger.Config  `mapstructure:"logger"`
	Server   ServerConfig   `mapstructure:"server"`
	Scrape   ScrapeConfig   `mapstructure:"scrape"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Database DatabaseConfig `mapstructure:"database"`
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// ScrapeConfig holds pipeline settings.
type ScrapeConfig struct {
	// Limit caps concurrent enrichment tasks across all sources of a run.
	Limit int `mapstructure:"limit"`
	// SourcesFile optionally replaces the built-in default sources.
	SourcesFile string `mapstructure:"sources_file"`
	// PublisherDomains are rejected as company websites.
	PublisherDomains []string `mapstructure:"publisher_domains"`
	// RunTimeout bounds a whole run.
	RunTimeout time.Duration `mapstructure:"run_timeout"`
}

// FetchConfig holds outbound HTTP settings shared by feed and page fetches.
type FetchConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	UserAgent     string        `mapstructure:"user_agent"`
	MaxBodyBytes  int64         `mapstructure:"max_body_bytes"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

// DatabaseConfig holds the optional source store connection.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app", map[string]any{
		"name":        "startup-scout",
		"version":     "1.0.0",
		"environment": "production",
		"debug":       false,
	})

	v.SetDefault("logger", map[string]any{
		"level":        "info",
		"development":  false,
		"output_paths": []string{"stdout"},
	})

	v.SetDefault("server", map[string]any{
		"port":             DefaultServerPort,
		"read_timeout":     DefaultReadTimeout.String(),
		"write_timeout":    DefaultWriteTimeout.String(),
		"idle_timeout":     DefaultIdleTimeout.String(),
		"shutdown_timeout": DefaultShutdownTimeout.String(),
		"cors_origins":     []string{"*"},
	})

	v.SetDefault("scrape", map[string]any{
		"limit":             DefaultLimit,
		"sources_file":      "",
		"publisher_domains": DefaultPublisherDomains,
		"run_timeout":       DefaultRunTimeout.String(),
	})

	v.SetDefault("fetch", map[string]any{
		"timeout":        DefaultFetchTimeout.String(),
		"user_agent":     DefaultUserAgent,
		"max_body_bytes": DefaultMaxBodyBytes,
		"retry_attempts": DefaultRetryAttempts,
		"retry_delay":    DefaultRetryDelay.String(),
	})

	v.SetDefault("database", map[string]any{
		"enabled":  false,
		"host":     "localhost",
		"port":     "5432",
		"user":     "postgres",
		"password": "",
		"dbname":   "startup_scout",
		"sslmode":  "disable",
	})
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}

	return cfg
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error

	if c.Scrape.Limit < 1 || c.Scrape.Limit > maxLimit {
		errs = append(errs, fmt.Errorf("scrape.limit must be between 1 and %d, got %d", maxLimit, c.Scrape.Limit))
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, errors.New("fetch.timeout must be positive"))
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("fetch.max_body_bytes must be positive"))
	}
	if c.Fetch.RetryAttempts < 1 {
		errs = append(errs, errors.New("fetch.retry_attempts must be at least 1"))
	}
	if c.Server.Port <= 0 {
		errs = append(errs, errors.New("server.port must be positive"))
	}
	if c.Database.Enabled && strings.TrimSpace(c.Database.Host) == "" {
		errs = append(errs, errors.New("database.host is required when the database is enabled"))
	}

	return errors.Join(errs...)
}
