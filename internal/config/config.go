package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all client settings, populated from an optional YAML file
// and environment variables. Env vars win over file values.
type Config struct {
	BackendURL      string
	RefreshInterval time.Duration
	HTTPAddr        string
	HTTPTimeout     time.Duration
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// fileConfig is the YAML shape. Durations are strings ("30s", "1m") parsed
// with time.ParseDuration.
type fileConfig struct {
	BackendURL      string `yaml:"backend_url"`
	RefreshInterval string `yaml:"refresh_interval"`
	HTTPAddr        string `yaml:"http_addr"`
	HTTPTimeout     string `yaml:"http_timeout"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

func defaults() *Config {
	return &Config{
		BackendURL:      "http://localhost:8000",
		RefreshInterval: 30 * time.Second,
		HTTPAddr:        ":8081",
		HTTPTimeout:     10 * time.Second,
		LogLevel:        "info",
		LogFormat:       "json",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	return load(defaults())
}

// LoadFile reads a YAML configuration file, then applies environment
// variable overrides on top.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if fc.BackendURL != "" {
		cfg.BackendURL = fc.BackendURL
	}
	if fc.HTTPAddr != "" {
		cfg.HTTPAddr = fc.HTTPAddr
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
	if cfg.RefreshInterval, err = fileDuration("refresh_interval", fc.RefreshInterval, cfg.RefreshInterval); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = fileDuration("http_timeout", fc.HTTPTimeout, cfg.HTTPTimeout); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = fileDuration("shutdown_timeout", fc.ShutdownTimeout, cfg.ShutdownTimeout); err != nil {
		return nil, err
	}

	return load(cfg)
}

func fileDuration(key, value string, current time.Duration) (time.Duration, error) {
	if value == "" {
		return current, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s in config file: %w", key, err)
	}
	return d, nil
}

func load(cfg *Config) (*Config, error) {
	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	var err error
	if cfg.RefreshInterval, err = envDuration("REFRESH_INTERVAL", cfg.RefreshInterval); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = envDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return nil, err
	}

	if cfg.BackendURL == "" {
		return nil, errors.New("BACKEND_URL is required")
	}
	if cfg.RefreshInterval <= 0 {
		return nil, errors.New("REFRESH_INTERVAL must be positive")
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, errors.New("HTTP_TIMEOUT must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}

	return cfg, nil
}

func envDuration(name string, current time.Duration) (time.Duration, error) {
	s := os.Getenv(name)
	if s == "" {
		return current, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}
