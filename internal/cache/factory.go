// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when non-empty.
	RedisURL string

	// Prefix is the key prefix for the Redis backend.
	Prefix string

	// DefaultTTL is the default TTL for cache entries.
	DefaultTTL time.Duration

	// MaxSize is the entry bound for the memory backend.
	MaxSize int

	// CleanupInterval is the expired-entry sweep interval for the memory
	// backend.
	CleanupInterval time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:      time.Hour,
		MaxSize:         10000,
		CleanupInterval: time.Minute,
	}
}

// New creates a cache backend from the configuration. When Redis is
// configured but unreachable, it logs the failure and falls back to the
// in-memory backend so the admin keeps working.
func New(cfg Config) Cacher {
	if cfg.RedisURL != "" {
		c, err := NewRedisCache(RedisCacheOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
		if err == nil {
			slog.Info("cache backend: redis", "prefix", cfg.Prefix)
			return c
		}
		slog.Warn("redis unavailable, falling back to memory cache", "error", err)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}
