// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// limiterCache is a generic rate limiter cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// get returns the limiter for a key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()
	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()
	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// clearIfExceeds clears all entries if the cache exceeds maxSize.
func (lc *limiterCache[K]) clearIfExceeds(maxSize int) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if len(lc.limiters) > maxSize {
		lc.limiters = make(map[K]*rate.Limiter)
		return true
	}
	return false
}

// RateLimitPerIP limits requests per client IP. Used on the AI endpoints
// where each request costs upstream tokens.
func RateLimitPerIP(rps float64, burst int) func(http.Handler) http.Handler {
	cache := newLimiterCache[string](rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !cache.get(ip).Allow() {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			if cache.clearIfExceeds(10000) {
				slog.Info("cleared rate limiters due to size")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client IP from the request.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
