// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the caching infrastructure for the admin.
package cache

import (
	"context"
	"time"
)

// Cacher is the interface all cache backends implement.
// Implementations must be safe for concurrent use. Values are []byte so the
// same call sites work against both the in-memory and the Redis backend.
type Cacher interface {
	// Get retrieves a value. Returns ErrCacheMiss when the key is absent
	// or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. A zero TTL uses the backend's default TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Has reports whether a key exists and is not expired.
	Has(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the backend.
	Close() error
}

// Stats holds cache counters.
type Stats struct {
	Hits    int64
	Misses  int64
	Sets    int64
	Items   int
	HitRate float64
}

// StatsProvider is an optional interface for backends that track counters.
type StatsProvider interface {
	Stats() Stats
	ResetStats()
}

// Error is the error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)
