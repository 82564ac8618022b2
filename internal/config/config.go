// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads hubcms settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Remote holds the settings shared by the server and the CLI for talking
// to the content service.
type Remote struct {
	APIURL         string `env:"HUBCMS_API_URL,required"`
	RequestTimeout int    `env:"HUBCMS_REQUEST_TIMEOUT" envDefault:"30"` // seconds, 0 disables
	LogLevel       string `env:"HUBCMS_LOG_LEVEL" envDefault:"info"`
}

// Timeout returns RequestTimeout as a duration.
func (r Remote) Timeout() time.Duration {
	return time.Duration(r.RequestTimeout) * time.Second
}

// SlogLevel maps LogLevel to a slog level. Unknown values map to info.
func (r Remote) SlogLevel() slog.Level {
	switch strings.ToLower(r.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config holds the admin server configuration.
type Config struct {
	Remote

	DBPath        string `env:"HUBCMS_DB_PATH" envDefault:"./data/hubcms.db"`
	SessionSecret string `env:"HUBCMS_SESSION_SECRET,required"`
	ServerHost    string `env:"HUBCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"HUBCMS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"HUBCMS_ENV" envDefault:"development"`

	// Snapshot cache
	RedisURL    string `env:"HUBCMS_REDIS_URL"` // optional, memory cache when empty
	CachePrefix string `env:"HUBCMS_CACHE_PREFIX" envDefault:"hubcms:"`
	CacheTTL    int    `env:"HUBCMS_CACHE_TTL" envDefault:"3600"` // seconds

	UploadMaxWidth     int `env:"HUBCMS_UPLOAD_MAX_WIDTH" envDefault:"1600"`
	EventRetentionDays int `env:"HUBCMS_EVENT_RETENTION_DAYS" envDefault:"90"`
}

// CLI holds the hubctl configuration.
type CLI struct {
	Remote

	User     string `env:"HUBCMS_USER"`
	Password string `env:"HUBCMS_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheDefaultTTL returns CacheTTL as a duration.
func (c Config) CacheDefaultTTL() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// EventRetention returns how long audit events are kept.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns the server configuration.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Remote.validate(); err != nil {
		return nil, err
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("HUBCMS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("HUBCMS_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("HUBCMS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("HUBCMS_SERVER_PORT %d out of range", cfg.ServerPort)
	}
	if cfg.EventRetentionDays <= 0 {
		return nil, fmt.Errorf("HUBCMS_EVENT_RETENTION_DAYS must be positive, got %d", cfg.EventRetentionDays)
	}
	if cfg.UploadMaxWidth < 0 {
		return nil, fmt.Errorf("HUBCMS_UPLOAD_MAX_WIDTH must not be negative, got %d", cfg.UploadMaxWidth)
	}
	return cfg, nil
}

// LoadCLI parses environment variables for hubctl.
func LoadCLI() (*CLI, error) {
	return LoadCLIWith(nil)
}

// LoadCLIWith is LoadCLI with overrides taking precedence over the process
// environment. Empty override values are ignored.
func LoadCLIWith(overrides map[string]string) (*CLI, error) {
	environ := env.ToMap(os.Environ())
	for k, v := range overrides {
		if v != "" {
			environ[k] = v
		}
	}
	cfg := &CLI{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Remote.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r Remote) validate() error {
	u, err := url.Parse(r.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("HUBCMS_API_URL must be an http(s) URL, got %q", r.APIURL)
	}
	if r.RequestTimeout < 0 {
		return fmt.Errorf("HUBCMS_REQUEST_TIMEOUT must not be negative, got %d", r.RequestTimeout)
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
