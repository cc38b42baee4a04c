// Package config loads and normalises the OpenShelf client configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL = "http://localhost:8000/api"
	defaultTimeout = 10

	// EnvBaseURL and friends override file values when set.
	EnvBaseURL = "OPENSHELF_BASE_URL"
	EnvDataDir = "OPENSHELF_DATA_DIR"
	EnvAPIKey  = "OPENSHELF_BOOKS_API_KEY"
)

// RateConfig bounds the client-side request rate against the catalog API.
type RateConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Config represents the combined runtime settings parsed from config.yaml.
type Config struct {
	BaseURL        string     `yaml:"base_url"`
	TimeoutSeconds int        `yaml:"timeout_seconds"`
	DataDir        string     `yaml:"data_dir"`
	BooksAPIKey    string     `yaml:"books_api_key"`
	Rate           RateConfig `yaml:"rate"`
}

// Load reads the config file at path, applies defaults and environment
// overrides, and normalises the result. path may be empty for a pure
// defaults-plus-env configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{
		BaseURL:        defaultBaseURL,
		TimeoutSeconds: defaultTimeout,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		cfg.BooksAPIKey = v
	}

	cfg.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaultTimeout
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.DataDir = filepath.Join(home, ".openshelf")
	}

	return cfg, nil
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TokenFile returns the path where the session token is persisted.
func (c *Config) TokenFile() string {
	return filepath.Join(c.DataDir, "session-token")
}
