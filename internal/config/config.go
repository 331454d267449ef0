// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"MANHAJ_DB_PATH" envDefault:"./data/manhaj.db"`
	SessionSecret string `env:"MANHAJ_SESSION_SECRET,required"`
	ServerHost    string `env:"MANHAJ_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"MANHAJ_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"MANHAJ_ENV" envDefault:"development"`
	LogLevel      string `env:"MANHAJ_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"MANHAJ_UPLOADS_DIR" envDefault:"./uploads"`

	// Cache configuration
	RedisURL     string `env:"MANHAJ_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"MANHAJ_CACHE_PREFIX" envDefault:"manhaj:"` // Redis key prefix
	CacheTTL     int    `env:"MANHAJ_CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"MANHAJ_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// AI integration. The summary endpoint fails closed (500) when the key
	// is absent; it never falls back to an unauthenticated call.
	OpenAIAPIKey string `env:"MANHAJ_OPENAI_API_KEY"`
	SummaryModel string `env:"MANHAJ_SUMMARY_MODEL" envDefault:"gpt-4o-mini"`
	ImageModel   string `env:"MANHAJ_IMAGE_MODEL" envDefault:"gpt-image-1"`

	// Event log retention, in days. Older entries are pruned nightly.
	EventRetentionDays int `env:"MANHAJ_EVENT_RETENTION_DAYS" envDefault:"90"`

	// Seeding configuration
	DoSeed bool `env:"MANHAJ_DO_SEED" envDefault:"false"` // Enable database seeding
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

// SummaryEnabled returns true if the AI summary credential is configured.
func (c Config) SummaryEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("MANHAJ_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	return cfg, nil
}
