// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Alban-i/manhaj-admin-sub002/internal/store"
)

func TestCreateLanguageInvalidatesCache(t *testing.T) {
	db := testDB(t)
	languages := testLanguageCache(db)
	h := NewLanguagesHandler(db, testRenderer(t), languages)
	router := chi.NewRouter()
	router.Route("/admin/languages", h.Routes)

	ctx := context.Background()
	if active, _ := languages.IsActiveCode(ctx, "ur"); active {
		t.Fatal("ur should not exist yet")
	}

	rec := postForm(t, router, "/admin/languages", url.Values{
		"code":      {"UR"},
		"name":      {"Urdu"},
		"direction": {"rtl"},
		"is_active": {"on"},
	})
	assertRedirect(t, rec, "/admin/languages")

	// The cache was invalidated, so the new language is visible at once.
	active, err := languages.IsActiveCode(ctx, "ur")
	if err != nil {
		t.Fatalf("checking code: %v", err)
	}
	if !active {
		t.Error("ur should be active after creation")
	}

	lang, err := store.New(db).GetLanguageByCode(ctx, "ur")
	if err != nil {
		t.Fatalf("loading language: %v", err)
	}
	if lang.Direction != "rtl" {
		t.Errorf("direction = %q, want rtl", lang.Direction)
	}
	if lang.IsDefault {
		t.Error("a later language must not become the default")
	}
}

func TestCreateLanguageRejectsBadCode(t *testing.T) {
	db := testDB(t)
	h := NewLanguagesHandler(db, testRenderer(t), testLanguageCache(db))
	router := chi.NewRouter()
	router.Route("/admin/languages", h.Routes)

	for _, code := range []string{"", "x", "xyz", "a1"} {
		rec := postForm(t, router, "/admin/languages", url.Values{
			"code": {code}, "name": {"Bogus"},
		})
		assertRedirect(t, rec, "/admin/languages")
	}

	count, err := store.New(db).CountLanguages(context.Background())
	if err != nil {
		t.Fatalf("counting: %v", err)
	}
	if count != 3 {
		t.Errorf("languages = %d, want the 3 seeded ones", count)
	}
}

func TestCreateLanguageRejectsDuplicateCode(t *testing.T) {
	db := testDB(t)
	h := NewLanguagesHandler(db, testRenderer(t), testLanguageCache(db))
	router := chi.NewRouter()
	router.Route("/admin/languages", h.Routes)

	rec := postForm(t, router, "/admin/languages", url.Values{
		"code": {"ar"}, "name": {"Arabic again"},
	})
	assertRedirect(t, rec, "/admin/languages")

	count, _ := store.New(db).CountLanguages(context.Background())
	if count != 3 {
		t.Errorf("languages = %d, want 3", count)
	}
}

func TestSetDefaultLanguage(t *testing.T) {
	db := testDB(t)
	languages := testLanguageCache(db)
	h := NewLanguagesHandler(db, testRenderer(t), languages)
	router := chi.NewRouter()
	router.Route("/admin/languages", h.Routes)

	ctx := context.Background()
	q := store.New(db)
	en, err := q.GetLanguageByCode(ctx, "en")
	if err != nil {
		t.Fatalf("loading en: %v", err)
	}

	rec := postForm(t, router, "/admin/languages/"+itoa(en.ID)+"/default", url.Values{})
	assertRedirect(t, rec, "/admin/languages")

	if got := languages.DefaultCode(ctx); got != "en" {
		t.Errorf("default code = %q, want en", got)
	}

	// Exactly one default remains.
	var defaults int64
	db.QueryRow(`SELECT COUNT(*) FROM languages WHERE is_default = 1`).Scan(&defaults)
	if defaults != 1 {
		t.Errorf("default languages = %d, want 1", defaults)
	}
}

func TestDeleteDefaultLanguageBlocked(t *testing.T) {
	db := testDB(t)
	h := NewLanguagesHandler(db, testRenderer(t), testLanguageCache(db))
	router := chi.NewRouter()
	router.Route("/admin/languages", h.Routes)

	ctx := context.Background()
	q := store.New(db)
	ar, err := q.GetLanguageByCode(ctx, "ar")
	if err != nil {
		t.Fatalf("loading ar: %v", err)
	}

	rec := postForm(t, router, "/admin/languages/"+itoa(ar.ID)+"/delete", url.Values{})
	assertRedirect(t, rec, "/admin/languages")

	if _, err := q.GetLanguageByCode(ctx, "ar"); err != nil {
		t.Error("the default language must survive a delete attempt")
	}
}

func TestDeleteLanguage(t *testing.T) {
	db := testDB(t)
	languages := testLanguageCache(db)
	h := NewLanguagesHandler(db, testRenderer(t), languages)
	router := chi.NewRouter()
	router.Route("/admin/languages", h.Routes)

	ctx := context.Background()
	q := store.New(db)
	fr, err := q.GetLanguageByCode(ctx, "fr")
	if err != nil {
		t.Fatalf("loading fr: %v", err)
	}

	rec := postForm(t, router, "/admin/languages/"+itoa(fr.ID)+"/delete", url.Values{})
	assertRedirect(t, rec, "/admin/languages")

	if active, _ := languages.IsActiveCode(ctx, "fr"); active {
		t.Error("fr should be gone from the cache")
	}
}
