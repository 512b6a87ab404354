// Package config provides configuration management for the scene availability tools.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the complete application configuration loaded from environment variables.
type Config struct {
	Server  ServerConfig  `envPrefix:"SERVER_"`
	ASF     ASFConfig     `envPrefix:"ASF_"`
	STAC    STACConfig    `envPrefix:"STAC_"`
	Survey  SurveyConfig  `envPrefix:"SURVEY_"`
	Logging LoggingConfig `envPrefix:"LOG_"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"300s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

// ASFConfig contains ASF API client configuration.
type ASFConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://api.daac.asf.alaska.edu"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

// STACConfig contains defaults for STAC API catalogs. Collections may
// override the URL.
type STACConfig struct {
	BaseURL  string        `env:"BASE_URL" envDefault:"https://planetarycomputer.microsoft.com/api/stac/v1"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"60s"`
	MaxPages int           `env:"MAX_PAGES" envDefault:"100"`
	PageSize int           `env:"PAGE_SIZE" envDefault:"250"`
}

// SurveyConfig contains the availability workflow settings.
type SurveyConfig struct {
	CollectionsDir    string `env:"COLLECTIONS_DIR"`
	RadarCollection   string `env:"RADAR_COLLECTION" envDefault:"sentinel-1"`
	OpticalCollection string `env:"OPTICAL_COLLECTION" envDefault:"sentinel-2-l2a"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	opts := env.Options{
		RequiredIfNoDef: false,
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive, got %s", c.Server.ReadTimeout)
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive, got %s", c.Server.WriteTimeout)
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}

	if c.ASF.BaseURL == "" {
		return fmt.Errorf("ASF base URL is required")
	}

	if c.ASF.Timeout <= 0 {
		return fmt.Errorf("ASF timeout must be positive, got %s", c.ASF.Timeout)
	}

	if c.STAC.BaseURL == "" {
		return fmt.Errorf("STAC base URL is required")
	}

	if c.STAC.Timeout <= 0 {
		return fmt.Errorf("STAC timeout must be positive, got %s", c.STAC.Timeout)
	}

	if c.STAC.MaxPages < 1 {
		return fmt.Errorf("STAC max pages must be at least 1, got %d", c.STAC.MaxPages)
	}

	if c.STAC.PageSize < 1 {
		return fmt.Errorf("STAC page size must be at least 1, got %d", c.STAC.PageSize)
	}

	if c.Survey.RadarCollection == "" || c.Survey.OpticalCollection == "" {
		return fmt.Errorf("radar and optical collection IDs are required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format %q, must be one of: json, text", c.Logging.Format)
	}

	return nil
}

// Address returns the server listen address in the format "host:port".
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
