// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis-backed Cacher for deployments that share cache
// state across instances.
type RedisCache struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
	closed     atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// RedisCacheOptions configures the Redis cache.
type RedisCacheOptions struct {
	URL            string // redis://localhost:6379/0
	Prefix         string // prepended to all keys
	DefaultTTL     time.Duration
	ConnectTimeout time.Duration
}

// NewRedisCache connects to Redis and verifies the connection with a ping.
func NewRedisCache(opts RedisCacheOptions) (*RedisCache, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisCache{
		client:     client,
		prefix:     opts.Prefix,
		defaultTTL: opts.DefaultTTL,
	}, nil
}

func (c *RedisCache) prefixKey(key string) string {
	return c.prefix + key
}

// Get retrieves a value from the cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}
	val, err := c.client.Get(ctx, c.prefixKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.misses.Add(1)
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	c.hits.Add(1)
	return val, nil
}

// Set stores a value in the cache with the specified TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, c.prefixKey(key), value, ttl).Err(); err != nil {
		return err
	}
	c.sets.Add(1)
	return nil
}

// Delete removes a key from the cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.client.Del(ctx, c.prefixKey(key)).Err()
}

// Clear removes all entries under the cache prefix using SCAN, which is
// safe against large keyspaces where KEYS is not.
func (c *RedisCache) Clear(ctx context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	var cursor uint64
	pattern := c.prefix + "*"
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			return nil
		}
	}
}

// Has checks if a key exists in the cache.
func (c *RedisCache) Has(ctx context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}
	exists, err := c.client.Exists(ctx, c.prefixKey(key)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Ping checks if the Redis connection is healthy.
func (c *RedisCache) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		return c.client.Close()
	}
	return nil
}

// Stats returns current cache counters. Redis does not track per-prefix
// stats, so these are local to this process.
func (c *RedisCache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return Stats{Hits: hits, Misses: misses, Sets: c.sets.Load(), HitRate: hitRate}
}

// ResetStats resets the cache counters.
func (c *RedisCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
}

var (
	_ Cacher        = (*RedisCache)(nil)
	_ StatsProvider = (*RedisCache)(nil)
)
