// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config selects and configures a cache backend.
type Config struct {
	// RedisURL selects the Redis backend when set.
	RedisURL string

	// Prefix is the Redis key prefix.
	Prefix string

	DefaultTTL      time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig returns the memory-backend defaults.
func DefaultConfig() Config {
	return Config{
		Prefix:          "hubcms:",
		DefaultTTL:      time.Hour,
		CleanupInterval: time.Minute,
	}
}

// NewCache creates the backend described by cfg. When Redis is configured
// but unreachable it falls back to memory and logs a warning, so the admin
// host still starts.
func NewCache(cfg Config, logger *slog.Logger) Cacher {
	if cfg.RedisURL != "" {
		rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err == nil {
			logger.Info("cache backend", "type", "redis", "prefix", cfg.Prefix)
			return rc
		}
		logger.Warn("redis unavailable, using memory cache", "category", "cache", "error", err)
	}
	logger.Info("cache backend", "type", "memory")
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		CleanupInterval: cfg.CleanupInterval,
	})
}
