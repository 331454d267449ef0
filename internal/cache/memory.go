// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache is a bounded, thread-safe in-memory cache. When the entry
// count reaches MaxSize, expired entries are dropped first and then the
// entry closest to expiry is evicted, so the cache can never grow past
// its bound.
type MemoryCache struct {
	mu         sync.Mutex
	data       map[string]*memoryEntry
	defaultTTL time.Duration
	maxSize    int
	stopCh     chan struct{}
	closed     atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL      time.Duration
	MaxSize         int           // maximum number of entries (0 = unlimited)
	CleanupInterval time.Duration // expired-entry sweep interval (0 = no sweep)
}

// NewMemoryCache creates a memory cache with the given options.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		data:       make(map[string]*memoryEntry),
		defaultTTL: opts.DefaultTTL,
		maxSize:    opts.MaxSize,
		stopCh:     make(chan struct{}),
	}
	if opts.CleanupInterval > 0 {
		go c.cleanupLoop(opts.CleanupInterval)
	}
	return c
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	c.mu.Lock()
	entry, ok := c.data[key]
	if ok && time.Now().After(entry.expiresAt) {
		delete(c.data, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}

	c.hits.Add(1)
	result := make([]byte, len(entry.value))
	copy(result, entry.value)
	return result, nil
}

// Set stores a value in the cache with the specified TTL.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	c.mu.Lock()
	if c.maxSize > 0 {
		if _, exists := c.data[key]; !exists && len(c.data) >= c.maxSize {
			c.evictLocked()
		}
	}
	c.data[key] = &memoryEntry{value: valueCopy, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()

	c.sets.Add(1)
	return nil
}

// Delete removes a key from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.mu.Lock()
	c.data = make(map[string]*memoryEntry)
	c.mu.Unlock()
	return nil
}

// Has checks if a key exists in the cache and is not expired.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.data[key]
	if !ok {
		return false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.data, key)
		return false, nil
	}
	return true, nil
}

// DeleteByPrefix removes all keys starting with the given prefix.
func (c *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.mu.Lock()
	for k := range c.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.data, k)
		}
	}
	c.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine.
func (c *MemoryCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns current cache counters.
func (c *MemoryCache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	c.mu.Lock()
	items := len(c.data)
	c.mu.Unlock()

	return Stats{Hits: hits, Misses: misses, Sets: c.sets.Load(), Items: items, HitRate: hitRate}
}

// ResetStats resets the cache counters.
func (c *MemoryCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
}

// evictLocked drops expired entries, and if the cache is still full,
// the entry closest to expiry. Callers must hold c.mu.
func (c *MemoryCache) evictLocked() {
	now := time.Now()
	for k, e := range c.data {
		if now.After(e.expiresAt) {
			delete(c.data, k)
		}
	}
	if len(c.data) < c.maxSize {
		return
	}

	var victim string
	var victimExpiry time.Time
	for k, e := range c.data {
		if victim == "" || e.expiresAt.Before(victimExpiry) {
			victim = k
			victimExpiry = e.expiresAt
		}
	}
	if victim != "" {
		delete(c.data, victim)
	}
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, e := range c.data {
				if now.After(e.expiresAt) {
					delete(c.data, k)
				}
			}
			c.mu.Unlock()
		case <-c.stopCh:
			return
		}
	}
}

var (
	_ Cacher        = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
)
