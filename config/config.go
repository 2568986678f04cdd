// Package config loads shrun's configuration from the environment.
package config

import (
	"path/filepath"

	"github.com/kelseyhightower/envconfig"

	"github.com/jmgilman/go/shell/errors"
)

// Config holds all application configuration.
type Config struct {
	Resolve ResolveConfig
	Logging LogConfig
}

// ResolveConfig holds command resolution configuration.
type ResolveConfig struct {
	Shell      string `envconfig:"SHRUN_SHELL" default:"/bin/sh"`
	Launcher   string `envconfig:"SHRUN_LAUNCHER" default:"/usr/bin/env"`
	LoginShell bool   `envconfig:"SHRUN_LOGIN_SHELL" default:"true"`
	PathCache  bool   `envconfig:"SHRUN_PATH_CACHE" default:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level overrides the preset's level when set.
	Level       string `envconfig:"LOG_LEVEL"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Resolve: ResolveConfig{
			Shell:      "/bin/sh",
			Launcher:   "/usr/bin/env",
			LoginShell: true,
			PathCache:  true,
		},
		Logging: LogConfig{
			Development: false,
		},
	}
}

// Validate checks that the shell and launcher are absolute paths.
func (c *Config) Validate() error {
	for key, path := range map[string]string{
		"SHRUN_SHELL":    c.Resolve.Shell,
		"SHRUN_LAUNCHER": c.Resolve.Launcher,
	} {
		if !filepath.IsAbs(path) {
			return errors.WithContext(
				errors.Newf(errors.CodeInvalidConfig, "%s must be an absolute path, got %q", key, path),
				"key", key,
			)
		}
	}
	return nil
}
