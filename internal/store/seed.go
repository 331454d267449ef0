// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Alban-i/manhaj-admin-sub002/internal/model"
)

// Seed ensures the platform languages exist. With doSeed it also creates a
// starter set of categories so a fresh install is not empty.
func Seed(ctx context.Context, db DBTX, doSeed bool) error {
	q := New(db)

	count, err := q.CountLanguages(ctx)
	if err != nil {
		return fmt.Errorf("counting languages: %w", err)
	}

	now := time.Now()
	if count == 0 {
		defaults := []CreateLanguageParams{
			{Code: "ar", Name: "Arabic", NativeName: "العربية", IsDefault: true, IsActive: true, Direction: model.DirectionRTL, Position: 0},
			{Code: "en", Name: "English", NativeName: "English", IsActive: true, Direction: model.DirectionLTR, Position: 1},
			{Code: "fr", Name: "French", NativeName: "Français", IsActive: true, Direction: model.DirectionLTR, Position: 2},
		}
		for _, lang := range defaults {
			lang.CreatedAt = now
			lang.UpdatedAt = now
			if _, err := q.CreateLanguage(ctx, lang); err != nil {
				return fmt.Errorf("seeding language %s: %w", lang.Code, err)
			}
		}
		slog.Info("seeded default languages", "count", len(defaults))
	}

	if !doSeed {
		return nil
	}

	categories, err := q.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}
	if len(categories) > 0 {
		return nil
	}

	starter := []struct{ slug, name string }{
		{"aqidah", "Aqidah"},
		{"fiqh", "Fiqh"},
		{"seerah", "Seerah"},
		{"history", "History"},
	}
	for _, c := range starter {
		err := q.CreateCategory(ctx, CreateCategoryParams{
			ID: uuid.NewString(), Slug: c.slug, Name: c.name, CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("seeding category %s: %w", c.slug, err)
		}
	}
	slog.Info("seeded starter categories", "count", len(starter))
	return nil
}
