// Package config loads process configuration from the environment.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-encounter/internal/errors"
)

// Config is every knob the server reads at startup
type Config struct {
	ContentBaseURL        string `env:"CONTENT_BASE_URL" envDefault:"https://raw.githubusercontent.com/Ocytowine/ArchiveValmorin/main"`
	ContentCacheTTLMS     int    `env:"CONTENT_CACHE_TTL_MS" envDefault:"600000"`
	ContentCacheDir       string `env:"CONTENT_CACHE_DIR" envDefault:".cache/content"`
	ContentFetchTimeoutMS int    `env:"CONTENT_FETCH_TIMEOUT_MS" envDefault:"15000"`

	// OpenAIAPIKey empty disables the decision oracle
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIModel     string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL"`
	OracleTimeoutMS int    `env:"ORACLE_TIMEOUT_MS" envDefault:"30000"`

	// RedisAddr empty keeps actors and encounters in memory
	RedisAddr string `env:"REDIS_ADDR"`

	HTTPPort int    `env:"HTTP_PORT" envDefault:"8080"`
	GRPCPort int    `env:"GRPC_PORT" envDefault:"50051"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the process environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.InvalidArgumentf("parse env: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads the given variables instead of the process environment
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, errors.InvalidArgumentf("parse env: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and the log level
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.ContentBaseURL == "" {
		vb.RequiredField("CONTENT_BASE_URL")
	}
	if c.ContentCacheTTLMS < 0 {
		vb.InvalidField("CONTENT_CACHE_TTL_MS", "must not be negative")
	}
	if c.ContentFetchTimeoutMS <= 0 {
		vb.InvalidField("CONTENT_FETCH_TIMEOUT_MS", "must be positive")
	}
	if c.OracleTimeoutMS <= 0 {
		vb.InvalidField("ORACLE_TIMEOUT_MS", "must be positive")
	}
	errors.ValidateRange("HTTP_PORT", c.HTTPPort, 1, 65535, vb)
	errors.ValidateRange("GRPC_PORT", c.GRPCPort, 1, 65535, vb)
	if _, ok := parseLevel(c.LogLevel); !ok {
		vb.InvalidField("LOG_LEVEL", "must be debug, info, warn or error")
	}

	return vb.Build()
}

// ContentCacheTTL is the content freshness window
func (c *Config) ContentCacheTTL() time.Duration {
	return time.Duration(c.ContentCacheTTLMS) * time.Millisecond
}

// ContentFetchTimeout bounds each archive request
func (c *Config) ContentFetchTimeout() time.Duration {
	return time.Duration(c.ContentFetchTimeoutMS) * time.Millisecond
}

// OracleTimeout bounds each oracle call
func (c *Config) OracleTimeout() time.Duration {
	return time.Duration(c.OracleTimeoutMS) * time.Millisecond
}

// OracleEnabled reports whether an API key was provided
func (c *Config) OracleEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// SlogLevel maps LOG_LEVEL, falling back to info
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
