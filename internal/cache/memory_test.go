package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheGetSet(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer c.Close()
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("missing key err = %v, want ErrCacheMiss", err)
	}

	if err := c.Set(ctx, "k", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get = %q, want value", got)
	}

	// The returned slice is a copy; mutating it must not affect the cache.
	got[0] = 'X'
	again, _ := c.Get(ctx, "k")
	if string(again) != "value" {
		t.Errorf("cached value mutated through returned slice: %q", again)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "short", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired key err = %v, want ErrCacheMiss", err)
	}
	has, err := c.Has(ctx, "short")
	if err != nil || has {
		t.Errorf("Has after expiry = %v, %v", has, err)
	}
}

func TestMemoryCacheBound(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute, MaxSize: 3})
	defer c.Close()
	ctx := context.Background()

	// "a" gets the shortest remaining TTL, so it is the eviction victim.
	if err := c.Set(ctx, "a", []byte("1"), time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	for _, k := range []string{"b", "c"} {
		if err := c.Set(ctx, k, []byte("1"), time.Minute); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
	if err := c.Set(ctx, "d", []byte("1"), time.Minute); err != nil {
		t.Fatalf("Set d: %v", err)
	}

	if got := c.Stats().Items; got != 3 {
		t.Errorf("items = %d, want bound of 3", got)
	}
	if has, _ := c.Has(ctx, "a"); has {
		t.Error("entry closest to expiry should have been evicted")
	}
	if has, _ := c.Has(ctx, "d"); !has {
		t.Error("newest entry should survive eviction")
	}

	// Overwriting an existing key at capacity must not evict.
	if err := c.Set(ctx, "d", []byte("2"), time.Minute); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got := c.Stats().Items; got != 3 {
		t.Errorf("items after overwrite = %d, want 3", got)
	}
}

func TestMemoryCacheDeleteByPrefix(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer c.Close()
	ctx := context.Background()

	for _, k := range []string{"widget:a", "widget:b", "lang:ar"} {
		if err := c.Set(ctx, k, []byte("v"), 0); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
	if err := c.DeleteByPrefix(ctx, "widget:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}
	if has, _ := c.Has(ctx, "widget:a"); has {
		t.Error("prefixed key should be gone")
	}
	if has, _ := c.Has(ctx, "lang:ar"); !has {
		t.Error("unrelated key should survive")
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Close is idempotent.
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	ctx := context.Background()
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after close err = %v, want ErrCacheClosed", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after close err = %v, want ErrCacheClosed", err)
	}
}

func TestFactoryFallsBackToMemory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RedisURL = "redis://127.0.0.1:1/0" // nothing listens here
	c := New(cfg)
	defer c.Close()

	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("unreachable redis should fall back to memory, got %T", c)
	}
}
