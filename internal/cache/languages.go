// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"

	"github.com/Alban-i/manhaj-admin-sub002/internal/model"
	"github.com/Alban-i/manhaj-admin-sub002/internal/store"
)

// LanguageCache keeps the language table in memory. Languages change
// rarely and are read on every admin request, so the cache loads once
// and is invalidated explicitly whenever a language is written.
type LanguageCache struct {
	queries *store.Queries

	mu          sync.RWMutex
	languages   []model.Language
	active      []model.Language
	byCode      map[string]model.Language
	defaultLang *model.Language
	loaded      bool
}

// NewLanguageCache creates a language cache over the store.
func NewLanguageCache(queries *store.Queries) *LanguageCache {
	return &LanguageCache{
		queries: queries,
		byCode:  make(map[string]model.Language),
	}
}

// GetAll retrieves all languages.
func (c *LanguageCache) GetAll(ctx context.Context) ([]model.Language, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]model.Language, len(c.languages))
	copy(result, c.languages)
	return result, nil
}

// GetActive retrieves only active languages.
func (c *LanguageCache) GetActive(ctx context.Context) ([]model.Language, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]model.Language, len(c.active))
	copy(result, c.active)
	return result, nil
}

// GetByCode retrieves a language by code. Returns nil when the code is
// unknown.
func (c *LanguageCache) GetByCode(ctx context.Context, code string) (*model.Language, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if lang, ok := c.byCode[code]; ok {
		return &lang, nil
	}
	return nil, nil
}

// GetDefault retrieves the default language. Falls back to the platform
// default code when the database has no default row.
func (c *LanguageCache) GetDefault(ctx context.Context) (*model.Language, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.defaultLang != nil {
		lang := *c.defaultLang
		return &lang, nil
	}
	if lang, ok := c.byCode[model.DefaultLanguageCode]; ok {
		return &lang, nil
	}
	return nil, nil
}

// DefaultCode returns the default language code, or the platform default
// when none is configured.
func (c *LanguageCache) DefaultCode(ctx context.Context) string {
	lang, err := c.GetDefault(ctx)
	if err != nil || lang == nil {
		return model.DefaultLanguageCode
	}
	return lang.Code
}

// IsActiveCode checks if a language code is active.
func (c *LanguageCache) IsActiveCode(ctx context.Context, code string) (bool, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if lang, ok := c.byCode[code]; ok {
		return lang.IsActive, nil
	}
	return false, nil
}

// Invalidate clears the cache, forcing a reload on next access.
func (c *LanguageCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.languages = nil
	c.active = nil
	c.byCode = make(map[string]model.Language)
	c.defaultLang = nil
}

// Preload warms the cache, used at startup.
func (c *LanguageCache) Preload(ctx context.Context) error {
	return c.ensureLoaded(ctx)
}

func (c *LanguageCache) ensureLoaded(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}

	rows, err := c.queries.ListLanguages(ctx)
	if err != nil {
		return err
	}

	languages := make([]model.Language, len(rows))
	for i, row := range rows {
		languages[i] = model.Language{
			ID:         row.ID,
			Code:       row.Code,
			Name:       row.Name,
			NativeName: row.NativeName,
			IsDefault:  row.IsDefault,
			IsActive:   row.IsActive,
			Direction:  row.Direction,
			Position:   int(row.Position),
			CreatedAt:  row.CreatedAt,
			UpdatedAt:  row.UpdatedAt,
		}
	}

	c.languages = languages
	c.byCode = make(map[string]model.Language, len(languages))
	c.active = c.active[:0]
	c.defaultLang = nil

	for _, lang := range languages {
		c.byCode[lang.Code] = lang
		if lang.IsActive {
			c.active = append(c.active, lang)
		}
		if lang.IsDefault {
			langCopy := lang
			c.defaultLang = &langCopy
		}
	}

	c.loaded = true
	return nil
}
