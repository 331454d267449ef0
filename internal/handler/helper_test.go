// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Alban-i/manhaj-admin-sub002/internal/cache"
	"github.com/Alban-i/manhaj-admin-sub002/internal/model"
	"github.com/Alban-i/manhaj-admin-sub002/internal/render"
	"github.com/Alban-i/manhaj-admin-sub002/internal/store"
)

// testDB creates a migrated and language-seeded in-memory database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enabling foreign keys: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	if err := store.Seed(context.Background(), db, false); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	return db
}

// testRenderer builds a renderer over minimal templates. The nil session
// manager makes SetFlash a no-op, which is all the POST flows need.
func testRenderer(t *testing.T) *render.Renderer {
	t.Helper()

	page := &fstest.MapFile{Data: []byte(`{{define "content"}}<main>{{.Title}}</main>{{end}}`)}
	fsys := fstest.MapFS{
		"layouts/base.html":         {Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{template "content" .}}{{end}}`)},
		"layouts/admin.html":        {Data: []byte(``)},
		"partials/flash.html":       {Data: []byte(`{{define "flash"}}{{.Flash}}{{end}}`)},
		"admin/dashboard.html":      page,
		"admin/content_list.html":   page,
		"admin/content_form.html":   {Data: []byte(`{{define "content"}}<main>{{.Title}}</main>{{.Data.Preview}}{{end}}`)},
		"admin/taxonomy_list.html":  page,
		"admin/taxonomy_form.html":  page,
		"admin/authors.html":        page,
		"admin/author_form.html":    page,
		"admin/languages.html":      page,
		"admin/events.html":         page,
	}
	r, err := render.New(render.Config{TemplatesFS: fsys})
	if err != nil {
		t.Fatalf("building renderer: %v", err)
	}
	return r
}

func testLanguageCache(db *sql.DB) *cache.LanguageCache {
	return cache.NewLanguageCache(store.New(db))
}

// contentRouter mounts a ContentHandler the way main does.
func contentRouter(t *testing.T, db *sql.DB, kind model.Kind) chi.Router {
	t.Helper()

	h := NewContentHandler(db, testRenderer(t), testLanguageCache(db), kind)
	r := chi.NewRouter()
	r.Route("/admin/"+kind.Plural, h.Routes)
	return r
}

func postForm(t *testing.T, router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, wantPrefix string) {
	t.Helper()
	assertStatus(t, rec, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, wantPrefix) {
		t.Fatalf("redirect location = %q, want prefix %q", loc, wantPrefix)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// seedTranslation inserts a grouped translation and returns its id.
func seedTranslation(t *testing.T, db *sql.DB, kind model.Kind, slug, language, status string) string {
	t.Helper()

	q := store.New(db)
	ctx := context.Background()
	now := time.Now()
	groupID := uuid.NewString()
	id := uuid.NewString()

	if err := q.CreateGroup(ctx, kind, store.CreateGroupParams{
		ID: groupID, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("creating group: %v", err)
	}
	if err := q.CreateTranslation(ctx, kind, store.CreateTranslationParams{
		ID:         id,
		GroupID:    sql.NullString{String: groupID, Valid: true},
		Language:   language,
		Slug:       slug,
		Title:      "Seed " + slug,
		Body:       "body",
		Status:     status,
		IsOriginal: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		t.Fatalf("creating translation: %v", err)
	}
	return id
}
