package redmine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the Redmine client.
type Config struct {
	// URL is the base URL of the Redmine instance, e.g.
	// https://redmine.example.com. A trailing slash is stripped at client
	// construction.
	URL string `yaml:"url"`

	// APIKey is the Redmine REST API key, sent on every request via the
	// X-Redmine-API-Key header.
	APIKey string `yaml:"api_key"`

	// HTTP contains HTTP client configuration.
	HTTP HTTPConfig `yaml:"http"`
}

// HTTPConfig holds HTTP client configuration.
type HTTPConfig struct {
	// Timeout is the request timeout.
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int `yaml:"max_idle_conns"`

	// IdleConnTimeout is how long to keep idle connections open.
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// UnmarshalYAML implements yaml.Unmarshaler. Durations are written as Go
// duration strings ("30s", "2m"). Absent keys keep whatever values the
// receiver already holds, so defaults survive partial files.
func (h *HTTPConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Timeout         string `yaml:"timeout"`
		MaxIdleConns    *int   `yaml:"max_idle_conns"`
		IdleConnTimeout string `yaml:"idle_conn_timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("parse http timeout: %w", err)
		}
		h.Timeout = d
	}
	if raw.MaxIdleConns != nil {
		h.MaxIdleConns = *raw.MaxIdleConns
	}
	if raw.IdleConnTimeout != "" {
		d, err := time.ParseDuration(raw.IdleConnTimeout)
		if err != nil {
			return fmt.Errorf("parse http idle_conn_timeout: %w", err)
		}
		h.IdleConnTimeout = d
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults. URL and APIKey must
// still be filled in by the caller.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:         30 * time.Second,
			MaxIdleConns:    10,
			IdleConnTimeout: 90 * time.Second,
		},
	}
}

// NewConfig returns a Config for the given instance URL and API key with
// default HTTP settings.
func NewConfig(url, apiKey string) *Config {
	cfg := DefaultConfig()
	cfg.URL = url
	cfg.APIKey = apiKey
	return cfg
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrConfigURLRequired
	}
	if c.APIKey == "" {
		return ErrConfigAPIKeyRequired
	}
	return nil
}

// Clone returns a copy of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// Environment variables consulted by LoadConfig and FromEnv.
const (
	EnvURL    = "REDMINE_URL"
	EnvAPIKey = "REDMINE_API_KEY"
)

// LoadConfig reads a YAML config file and applies environment variable
// overrides (REDMINE_URL, REDMINE_API_KEY) on top of it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// FromEnv returns a Config populated solely from environment variables.
func FromEnv() *Config {
	cfg := DefaultConfig()
	applyEnv(cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvURL); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
}
