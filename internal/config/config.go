// Package config provides configuration loading and management for AlertView.
// It supports loading configuration from YAML files with sensible defaults
// for any unset values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Report   ReportConfig   `yaml:"report"`
	Logger   LoggerConfig   `yaml:"logger"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// UpstreamConfig holds connection settings for the monitoring platform's
// alert API.
type UpstreamConfig struct {
	// BaseURL is the root of the upstream REST API, without a trailing
	// slash, e.g. "https://example.monitoring.com/santaba/rest".
	BaseURL string `yaml:"base_url"`

	// BearerToken authenticates requests to the upstream API.
	BearerToken string `yaml:"bearer_token"`

	// Account is the tenant/company identifier sent with every request.
	Account string `yaml:"account"`

	// APIVersion is the upstream API version header value.
	APIVersion string `yaml:"api_version"`

	// FetchTimeout bounds each page request. The upstream page count is
	// unbounded, so a hung request must not stall a run indefinitely.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// ReportConfig holds report engine settings.
type ReportConfig struct {
	// FetchPageSize is the fixed page size used when draining the
	// upstream listing endpoint.
	FetchPageSize int `yaml:"fetch_page_size"`

	// ViewPageSize is the default page size for the rows endpoint when
	// the caller does not specify one.
	ViewPageSize int `yaml:"view_page_size"`

	// PrintRowLimit caps the printable export; the document title is
	// annotated when the filtered set exceeds it.
	PrintRowLimit int `yaml:"print_row_limit"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

// ErrMissingBaseURL is returned when the upstream base URL is not configured.
var ErrMissingBaseURL = errors.New("upstream.base_url is required")

// Load reads configuration from the specified YAML file path.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	// Clean the path to prevent path traversal attacks
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(cfg)

	if cfg.Upstream.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}

	return cfg, nil
}

// applyDefaults sets sensible default values for configuration fields
// that are not explicitly set in the config file.
func applyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 120 * time.Second
	}

	// Upstream defaults
	if cfg.Upstream.APIVersion == "" {
		cfg.Upstream.APIVersion = "3"
	}
	if cfg.Upstream.FetchTimeout == 0 {
		cfg.Upstream.FetchTimeout = 30 * time.Second
	}

	// Report defaults
	if cfg.Report.FetchPageSize == 0 {
		cfg.Report.FetchPageSize = 1000
	}
	if cfg.Report.ViewPageSize == 0 {
		cfg.Report.ViewPageSize = 25
	}
	if cfg.Report.PrintRowLimit == 0 {
		cfg.Report.PrintRowLimit = 10000
	}

	// Logger defaults
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Logger.Format == "" {
		cfg.Logger.Format = "json"
	}
}

// Address returns the full server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
