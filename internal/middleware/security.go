// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// SecurityHeadersConfig holds configuration for security headers.
type SecurityHeadersConfig struct {
	// IsDevelopment disables HSTS and loosens CSP.
	IsDevelopment bool

	// ContentSecurityPolicy is the CSP header value. Empty uses a default.
	ContentSecurityPolicy string

	// HSTSMaxAge in seconds. 0 disables HSTS.
	HSTSMaxAge int

	// HSTSIncludeSubDomains includes subdomains in the HSTS policy.
	HSTSIncludeSubDomains bool

	// FrameOptions is the X-Frame-Options value ("DENY", "SAMEORIGIN",
	// empty disables).
	FrameOptions string

	// ReferrerPolicy is the Referrer-Policy value.
	ReferrerPolicy string
}

// DefaultSecurityHeadersConfig returns defaults for the admin surface.
func DefaultSecurityHeadersConfig(isDev bool) SecurityHeadersConfig {
	cfg := SecurityHeadersConfig{
		IsDevelopment:  isDev,
		HSTSMaxAge:     31536000,
		FrameOptions:   "SAMEORIGIN",
		ReferrerPolicy: "strict-origin-when-cross-origin",
	}

	directives := map[string]string{
		"default-src": "'self'",
		"script-src":  "'self' 'unsafe-inline' https://unpkg.com",
		"style-src":   "'self' 'unsafe-inline'",
		"img-src":     "'self' data: blob:",
		"font-src":    "'self' data:",
		"connect-src": "'self'",
		"object-src":  "'none'",
		"base-uri":    "'self'",
		"form-action": "'self'",
	}
	if isDev {
		directives["script-src"] += " 'unsafe-eval'"
	} else {
		cfg.HSTSIncludeSubDomains = true
	}
	cfg.ContentSecurityPolicy = buildCSP(directives)

	return cfg
}

// buildCSP builds a Content-Security-Policy string from directives.
func buildCSP(directives map[string]string) string {
	order := []string{
		"default-src", "script-src", "style-src", "img-src", "font-src",
		"connect-src", "object-src", "base-uri", "form-action",
	}

	var parts []string
	for _, key := range order {
		if value, ok := directives[key]; ok {
			parts = append(parts, key+" "+value)
		}
	}
	return strings.Join(parts, "; ")
}

// SecurityHeaders returns a middleware that adds security headers.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.ContentSecurityPolicy != "" {
				w.Header().Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}

			if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 {
				hsts := "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
				if cfg.HSTSIncludeSubDomains {
					hsts += "; includeSubDomains"
				}
				w.Header().Set("Strict-Transport-Security", hsts)
			}

			if cfg.FrameOptions != "" {
				w.Header().Set("X-Frame-Options", cfg.FrameOptions)
			}
			w.Header().Set("X-Content-Type-Options", "nosniff")
			if cfg.ReferrerPolicy != "" {
				w.Header().Set("Referrer-Policy", cfg.ReferrerPolicy)
			}

			next.ServeHTTP(w, r)
		})
	}
}
