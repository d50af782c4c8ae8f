// Package config handles configuration for the skvs front end: a YAML
// file when one is given, environment variables otherwise, with the
// environment overriding file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backend names for snapshot persistence.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds the front end's settings.
type Config struct {
	// Addr is the address the server would listen on. It is recorded and
	// reported but never bound: there is no network listener in skvs.
	Addr string `yaml:"addr"`

	// StorePath is the snapshot location; empty disables persistence.
	StorePath string `yaml:"store_path"`

	// Backend selects the snapshot backend: "file" (JSON document) or
	// "sqlite".
	Backend string `yaml:"backend"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Load reads configuration from a YAML file if path is provided, then
// applies environment overrides and defaults. With an empty path only the
// environment and defaults apply.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if cfg.Backend != BackendFile && cfg.Backend != BackendSQLite {
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	return &cfg, nil
}

// applyEnvOverrides lets environment variables override file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SKVS_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("SKVS_STORE"); v != "" {
		cfg.StorePath = v
	}
	if v := os.Getenv("SKVS_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("SKVS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:8000"
	}
	if cfg.StorePath == "" {
		cfg.StorePath = "store.json"
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendFile
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}
