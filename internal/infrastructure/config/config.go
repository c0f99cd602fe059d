package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Desktop   DesktopConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"7700"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// StoreConfig holds persistence substrate configuration.
type StoreConfig struct {
	// Engine selects the record store backing the VFS: "sqlite" or "memory".
	Engine string `envconfig:"STORE_ENGINE" default:"sqlite"`
	Path   string `envconfig:"STORE_PATH" default:"duckos.db"`
}

// DesktopConfig holds default desktop geometry used before any client
// reports its real viewport.
type DesktopConfig struct {
	ViewportWidth  int `envconfig:"VIEWPORT_WIDTH" default:"1920"`
	ViewportHeight int `envconfig:"VIEWPORT_HEIGHT" default:"1080"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("DUCKOS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
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
		Server: ServerConfig{
			Port: "7700",
			Host: "0.0.0.0",
		},
		Store: StoreConfig{
			Engine: "sqlite",
			Path:   "duckos.db",
		},
		Desktop: DesktopConfig{
			ViewportWidth:  1920,
			ViewportHeight: 1080,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
