// Package middleware provides HTTP middleware for the admin application.
package middleware

import (
	"log/slog"
	"net/http"

	"filippo.io/csrf/gorilla"
)

// CSRFConfig holds configuration for CSRF protection.
// filippo.io/csrf/gorilla validates Fetch metadata headers rather than
// cookies, so cookie options are not needed.
type CSRFConfig struct {
	// AuthKey is a 32-byte key used to authenticate the CSRF token.
	AuthKey []byte

	// ErrorHandler is called when CSRF validation fails.
	ErrorHandler http.Handler

	// TrustedOrigins are hosts allowed to make cross-origin requests.
	TrustedOrigins []string
}

// DefaultCSRFConfig returns a CSRFConfig with sensible defaults.
func DefaultCSRFConfig(authKey []byte, isDev bool) CSRFConfig {
	cfg := CSRFConfig{AuthKey: authKey}
	if isDev {
		cfg.TrustedOrigins = []string{
			"localhost:8080",
			"127.0.0.1:8080",
		}
	}
	return cfg
}

// CSRF returns a middleware that provides CSRF protection.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	var opts []csrf.Option

	if cfg.ErrorHandler != nil {
		opts = append(opts, csrf.ErrorHandler(cfg.ErrorHandler))
	} else {
		opts = append(opts, csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)))
	}
	if len(cfg.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.TrustedOrigins))
	}

	return csrf.Protect(cfg.AuthKey, opts...)
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	reason := csrf.FailureReason(r)
	reasonStr := "unknown"
	if reason != nil {
		reasonStr = reason.Error()
	}
	slog.Error("CSRF validation failed",
		"reason", reasonStr,
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
	)
	http.Error(w, "Forbidden - CSRF validation failed", http.StatusForbidden)
}

// SkipCSRF returns a middleware that skips CSRF protection for specific
// paths, used for the AI API endpoints called via fetch.
func SkipCSRF(paths ...string) func(http.Handler) http.Handler {
	skipPaths := make(map[string]bool)
	for _, p := range paths {
		skipPaths[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipPaths[r.URL.Path] {
				r = csrf.UnsafeSkipCheck(r)
			}
			next.ServeHTTP(w, r)
		})
	}
}
