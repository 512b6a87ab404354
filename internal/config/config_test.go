package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got %s", cfg.Server.Host)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}

	if cfg.ASF.BaseURL != "https://api.daac.asf.alaska.edu" {
		t.Errorf("expected default ASF base URL, got %s", cfg.ASF.BaseURL)
	}

	if cfg.STAC.BaseURL != "https://planetarycomputer.microsoft.com/api/stac/v1" {
		t.Errorf("expected default STAC base URL, got %s", cfg.STAC.BaseURL)
	}

	if cfg.STAC.MaxPages != 100 {
		t.Errorf("expected default max pages 100, got %d", cfg.STAC.MaxPages)
	}

	if cfg.Survey.RadarCollection != "sentinel-1" {
		t.Errorf("expected default radar collection sentinel-1, got %s", cfg.Survey.RadarCollection)
	}

	if cfg.Survey.OpticalCollection != "sentinel-2-l2a" {
		t.Errorf("expected default optical collection sentinel-2-l2a, got %s", cfg.Survey.OpticalCollection)
	}

	if cfg.Survey.CollectionsDir != "" {
		t.Errorf("expected no collections dir by default, got %s", cfg.Survey.CollectionsDir)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "60s")
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("ASF_TIMEOUT", "45s")
	t.Setenv("STAC_BASE_URL", "https://stac.example.com")
	t.Setenv("STAC_MAX_PAGES", "5")
	t.Setenv("SURVEY_COLLECTIONS_DIR", "/etc/survey/collections")
	t.Setenv("SURVEY_OPTICAL_COLLECTION", "landsat-c2-l2")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}

	if cfg.Server.ReadTimeout != 60*time.Second {
		t.Errorf("expected read timeout 60s, got %s", cfg.Server.ReadTimeout)
	}

	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("expected 2 CORS origins, got %v", cfg.Server.CORSOrigins)
	}

	if cfg.ASF.Timeout != 45*time.Second {
		t.Errorf("expected ASF timeout 45s, got %s", cfg.ASF.Timeout)
	}

	if cfg.STAC.BaseURL != "https://stac.example.com" {
		t.Errorf("expected STAC base URL https://stac.example.com, got %s", cfg.STAC.BaseURL)
	}

	if cfg.STAC.MaxPages != 5 {
		t.Errorf("expected max pages 5, got %d", cfg.STAC.MaxPages)
	}

	if cfg.Survey.CollectionsDir != "/etc/survey/collections" {
		t.Errorf("expected collections dir, got %s", cfg.Survey.CollectionsDir)
	}

	if cfg.Survey.OpticalCollection != "landsat-c2-l2" {
		t.Errorf("expected optical collection landsat-c2-l2, got %s", cfg.Survey.OpticalCollection)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}

	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format json, got %s", cfg.Logging.Format)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid log format")
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		ASF: ASFConfig{
			BaseURL: "https://api.daac.asf.alaska.edu",
			Timeout: 30 * time.Second,
		},
		STAC: STACConfig{
			BaseURL:  "https://stac.example.com",
			Timeout:  30 * time.Second,
			MaxPages: 10,
			PageSize: 100,
		},
		Survey: SurveyConfig{
			RadarCollection:   "sentinel-1",
			OpticalCollection: "sentinel-2-l2a",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{
			name:      "valid config",
			mutate:    func(*Config) {},
			wantError: false,
		},
		{
			name:      "invalid port",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantError: true,
		},
		{
			name:      "zero shutdown timeout",
			mutate:    func(c *Config) { c.Server.ShutdownTimeout = 0 },
			wantError: true,
		},
		{
			name:      "missing ASF base URL",
			mutate:    func(c *Config) { c.ASF.BaseURL = "" },
			wantError: true,
		},
		{
			name:      "missing STAC base URL",
			mutate:    func(c *Config) { c.STAC.BaseURL = "" },
			wantError: true,
		},
		{
			name:      "zero max pages",
			mutate:    func(c *Config) { c.STAC.MaxPages = 0 },
			wantError: true,
		},
		{
			name:      "missing radar collection",
			mutate:    func(c *Config) { c.Survey.RadarCollection = "" },
			wantError: true,
		},
		{
			name:      "invalid log level",
			mutate:    func(c *Config) { c.Logging.Level = "invalid" },
			wantError: true,
		},
		{
			name:      "invalid log format",
			mutate:    func(c *Config) { c.Logging.Format = "yaml" },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestServerConfigAddress(t *testing.T) {
	cfg := ServerConfig{
		Host: "localhost",
		Port: 3000,
	}

	addr := cfg.Address()
	expected := "localhost:3000"
	if addr != expected {
		t.Errorf("Address() = %s, expected %s", addr, expected)
	}
}
