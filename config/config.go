// Package config loads acharya's configuration.
//
// Values come from an optional YAML file (the --config flag or CONFIG_PATH)
// and from environment variables, which always win. Unset values fall back to
// the env-default tags.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// ConfigPathEnv names the variable consulted when no path is passed to Load.
const ConfigPathEnv = "CONFIG_PATH"

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig `yaml:"app"`

	// Student API backend
	API APIConfig `yaml:"api"`

	// Observability
	Observability ObservabilityConfig `yaml:"observability"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string      `yaml:"name" env:"APP_NAME" env-default:"acharya"`
	Environment Environment `yaml:"environment" env:"APP_ENV" env-default:"development"`
	Debug       bool        `yaml:"debug" env:"APP_DEBUG"`
	Version     string      `yaml:"version" env:"APP_VERSION" env-default:"0.1.0"`
}

// APIConfig holds the student API settings.
type APIConfig struct {
	// Server origin, e.g. http://localhost:8080
	BaseURL string `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:8080"`

	// Resource path joined onto BaseURL
	BasePath string `yaml:"base_path" env:"API_BASE_PATH" env-default:"/api/students"`

	// Sent as a bearer token when set
	APIKey string `yaml:"api_key" env:"API_KEY"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"` // json, text
}

// Load reads the configuration. When path is empty CONFIG_PATH is consulted;
// with neither set only the environment is read.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}

	cfg := &Config{}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if cfg.App.Debug {
		cfg.Observability.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	switch c.App.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Sprintf("APP_ENV must be development, staging or production, got %q", c.App.Environment))
	}

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("API_BASE_URL must be an absolute URL, got %q", c.API.BaseURL))
	} else if c.IsProduction() && u.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("API_BASE_URL must use https in production, got %q", c.API.BaseURL))
	}

	if !strings.HasPrefix(c.API.BasePath, "/") {
		errs = append(errs, fmt.Sprintf("API_BASE_PATH must start with /, got %q", c.API.BasePath))
	}

	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be debug, info, warn or error, got %q", c.Observability.LogLevel))
	}

	switch strings.ToLower(c.Observability.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be text or json, got %q", c.Observability.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}
