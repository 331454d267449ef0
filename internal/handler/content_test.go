// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Alban-i/manhaj-admin-sub002/internal/model"
	"github.com/Alban-i/manhaj-admin-sub002/internal/store"
)

func TestEditFormNewSentinel(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)

	rec := get(t, router, "/admin/articles/new")
	assertStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "New Article") {
		t.Errorf("body = %q, want the new-article form title", rec.Body.String())
	}

	// The sentinel never touches storage.
	var count int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		t.Fatalf("counting articles: %v", err)
	}
	if count != 0 {
		t.Errorf("articles = %d, want 0", count)
	}
}

func TestEditFormUnknownSlugRedirects(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)

	rec := get(t, router, "/admin/articles/no-such-slug")
	assertRedirect(t, rec, "/admin/articles")
}

func TestEditFormRendersMarkdownPreview(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)
	id := seedTranslation(t, db, model.KindArticle, "tawhid", "ar", model.StatusDraft)

	if _, err := db.Exec("UPDATE articles SET body = ? WHERE id = ?",
		"**important** point\n\n<script>alert(1)</script>", id); err != nil {
		t.Fatalf("updating body: %v", err)
	}

	rec := get(t, router, "/admin/articles/"+id)
	assertStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "<strong>important</strong>") {
		t.Errorf("preview missing rendered markdown: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "<script>alert(1)</script>") {
		t.Error("preview leaked unsanitized script tag")
	}
}

func TestCreateArticle(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)

	rec := postForm(t, router, "/admin/articles", url.Values{
		"title":    {"The Rightly Guided"},
		"language": {"en"},
		"body":     {"Article body."},
	})
	assertRedirect(t, rec, "/admin/articles/")

	id := strings.TrimPrefix(rec.Header().Get("Location"), "/admin/articles/")
	row, err := store.New(db).FindTranslation(context.Background(), model.KindArticle, id)
	if err != nil {
		t.Fatalf("finding created article: %v", err)
	}
	if row.Translation.Slug != "the-rightly-guided" {
		t.Errorf("slug = %q, want auto-generated slug", row.Translation.Slug)
	}
	if row.Translation.Status.String != model.StatusDraft {
		t.Errorf("status = %q, want draft", row.Translation.Status.String)
	}
	if !row.Translation.IsOriginal.Bool {
		t.Error("created article should be the original")
	}
	if row.Group == nil {
		t.Fatal("created article should have a group row")
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)

	rec := postForm(t, router, "/admin/articles", url.Values{"body": {"no title"}})
	// Validation re-renders the form instead of redirecting.
	assertStatus(t, rec, http.StatusOK)

	var count int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		t.Fatalf("counting articles: %v", err)
	}
	if count != 0 {
		t.Errorf("articles = %d, want 0 after validation failure", count)
	}
}

func TestCreateRejectsInactiveLanguage(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)

	rec := postForm(t, router, "/admin/articles", url.Values{
		"title":    {"Unknown language"},
		"language": {"xx"},
	})
	assertStatus(t, rec, http.StatusOK)

	var count int64
	db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&count)
	if count != 0 {
		t.Errorf("articles = %d, want 0", count)
	}
}

func TestCreateRejectsDuplicateSlugSameLanguage(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)
	seedTranslation(t, db, model.KindArticle, "taken", "en", model.StatusDraft)

	rec := postForm(t, router, "/admin/articles", url.Values{
		"title":    {"Other"},
		"slug":     {"taken"},
		"language": {"en"},
	})
	assertStatus(t, rec, http.StatusOK)

	var count int64
	db.QueryRow(`SELECT COUNT(*) FROM articles WHERE slug = 'taken'`).Scan(&count)
	if count != 1 {
		t.Errorf("rows with slug = %d, want 1", count)
	}

	// The same slug in another language is fine.
	rec = postForm(t, router, "/admin/articles", url.Values{
		"title":    {"Other"},
		"slug":     {"taken"},
		"language": {"ar"},
	})
	assertRedirect(t, rec, "/admin/articles/")
}

func TestUpdateWritesMetadataToGroup(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)
	id := seedTranslation(t, db, model.KindArticle, "my-article", "en", model.StatusDraft)

	q := store.New(db)
	ctx := context.Background()
	if err := q.CreateAuthor(ctx, store.CreateAuthorParams{
		ID: "author-1", Name: "Ibn Kathir", Slug: "ibn-kathir",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("creating author: %v", err)
	}

	rec := postForm(t, router, "/admin/articles/"+id, url.Values{
		"title":     {"My Article"},
		"slug":      {"my-article"},
		"language":  {"en"},
		"body":      {"updated body"},
		"author_id": {"author-1"},
	})
	assertRedirect(t, rec, "/admin/articles/"+id)

	row, err := q.FindTranslation(ctx, model.KindArticle, id)
	if err != nil {
		t.Fatalf("finding article: %v", err)
	}
	if row.Group == nil {
		t.Fatal("article should keep its group")
	}
	if got := row.Group.AuthorID.String; got != "author-1" {
		t.Errorf("group author = %q, want author-1", got)
	}
	// The legacy inline column stays NULL; the group is authoritative.
	if row.Translation.AuthorID.Valid {
		t.Error("legacy author column should stay NULL")
	}
}

func TestUpdateMigratesLegacyRow(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)

	// A legacy row: no group, inline metadata only.
	if _, err := db.Exec(
		`INSERT INTO articles (id, language, slug, title, body, status, image_url, created_at, updated_at)
		 VALUES ('legacy-1', 'en', 'legacy', 'Legacy', 'body', 'draft', '/img/old.webp', datetime('now'), datetime('now'))`,
	); err != nil {
		t.Fatalf("inserting legacy row: %v", err)
	}

	rec := postForm(t, router, "/admin/articles/legacy-1", url.Values{
		"title":    {"Legacy"},
		"slug":     {"legacy"},
		"language": {"en"},
	})
	assertRedirect(t, rec, "/admin/articles/legacy-1")

	row, err := store.New(db).FindTranslation(context.Background(), model.KindArticle, "legacy-1")
	if err != nil {
		t.Fatalf("finding migrated row: %v", err)
	}
	if row.Group == nil {
		t.Fatal("first save should create and attach a group")
	}
}

func TestDeleteKeepsGroupRow(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)
	id := seedTranslation(t, db, model.KindArticle, "doomed", "en", model.StatusDraft)

	rec := postForm(t, router, "/admin/articles/"+id+"/delete", url.Values{})
	assertRedirect(t, rec, "/admin/articles")

	q := store.New(db)
	ctx := context.Background()
	if _, err := q.FindTranslation(ctx, model.KindArticle, id); err == nil {
		t.Error("deleted translation should not resolve")
	}

	// No cascade: the group stays behind and shows up as an orphan.
	orphans, err := q.CountOrphanGroups(ctx, model.KindArticle)
	if err != nil {
		t.Fatalf("counting orphan groups: %v", err)
	}
	if orphans != 1 {
		t.Errorf("orphan groups = %d, want 1", orphans)
	}
}

func TestDeleteHTMXReturnsBare200(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)
	id := seedTranslation(t, db, model.KindArticle, "htmx-doomed", "en", model.StatusDraft)

	req, _ := http.NewRequest(http.MethodPost, "/admin/articles/"+id+"/delete", nil)
	req.Header.Set("HX-Request", "true")
	rec := postFormRequest(t, router, req)
	assertStatus(t, rec, http.StatusOK)
}

func TestUpdateStatusTransitions(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)
	id := seedTranslation(t, db, model.KindArticle, "status-article", "en", model.StatusDraft)

	statusOf := func() string {
		var s sql.NullString
		if err := db.QueryRow(`SELECT status FROM articles WHERE id = ?`, id).Scan(&s); err != nil {
			t.Fatalf("reading status: %v", err)
		}
		return s.String
	}

	// draft -> published
	rec := postForm(t, router, "/admin/articles/"+id+"/status", url.Values{"status": {model.StatusPublished}})
	assertRedirect(t, rec, "/admin/articles/"+id)
	if got := statusOf(); got != model.StatusPublished {
		t.Fatalf("status = %q, want published", got)
	}

	// published -> archived is not an allowed transition.
	rec = postForm(t, router, "/admin/articles/"+id+"/status", url.Values{"status": {model.StatusArchived}})
	assertRedirect(t, rec, "/admin/articles/"+id)
	if got := statusOf(); got != model.StatusPublished {
		t.Errorf("status = %q, want unchanged published", got)
	}

	// published -> draft -> archived.
	postForm(t, router, "/admin/articles/"+id+"/status", url.Values{"status": {model.StatusDraft}})
	postForm(t, router, "/admin/articles/"+id+"/status", url.Values{"status": {model.StatusArchived}})
	if got := statusOf(); got != model.StatusArchived {
		t.Errorf("status = %q, want archived", got)
	}
}

func TestTranslateCreatesSiblingDraft(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)
	id := seedTranslation(t, db, model.KindArticle, "shared-slug", "en", model.StatusPublished)

	rec := postForm(t, router, "/admin/articles/"+id+"/translate", url.Values{"language": {"ar"}})
	assertRedirect(t, rec, "/admin/articles/")

	newID := strings.TrimPrefix(rec.Header().Get("Location"), "/admin/articles/")
	if newID == id {
		t.Fatal("translate should redirect to the new sibling")
	}

	row, err := store.New(db).FindTranslation(context.Background(), model.KindArticle, newID)
	if err != nil {
		t.Fatalf("finding sibling: %v", err)
	}
	if row.Translation.Language.String != "ar" {
		t.Errorf("language = %q, want ar", row.Translation.Language.String)
	}
	if row.Translation.Status.String != model.StatusDraft {
		t.Errorf("status = %q, want draft copy", row.Translation.Status.String)
	}
	if row.Translation.IsOriginal.Bool {
		t.Error("sibling should not be the original")
	}
	if row.Translation.Title != "Seed shared-slug" {
		t.Errorf("title = %q, want copied title", row.Translation.Title)
	}
}

func TestTranslateExistingSiblingRedirectsToIt(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)
	id := seedTranslation(t, db, model.KindArticle, "once", "en", model.StatusDraft)

	first := postForm(t, router, "/admin/articles/"+id+"/translate", url.Values{"language": {"ar"}})
	siblingPath := first.Header().Get("Location")

	second := postForm(t, router, "/admin/articles/"+id+"/translate", url.Values{"language": {"ar"}})
	assertStatus(t, second, http.StatusSeeOther)
	if got := second.Header().Get("Location"); got != siblingPath {
		t.Errorf("second translate redirected to %q, want existing sibling %q", got, siblingPath)
	}

	var count int64
	db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&count)
	if count != 2 {
		t.Errorf("articles = %d, want 2 (no duplicate sibling)", count)
	}
}

func TestTranslateSameLanguageRejected(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)
	id := seedTranslation(t, db, model.KindArticle, "same-lang", "en", model.StatusDraft)

	rec := postForm(t, router, "/admin/articles/"+id+"/translate", url.Values{"language": {"en"}})
	assertRedirect(t, rec, "/admin/articles/"+id)

	var count int64
	db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&count)
	if count != 1 {
		t.Errorf("articles = %d, want 1", count)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	db := testDB(t)
	router := contentRouter(t, db, model.KindArticle)
	seedTranslation(t, db, model.KindArticle, "draft-one", "en", model.StatusDraft)
	seedTranslation(t, db, model.KindArticle, "pub-one", "en", model.StatusPublished)

	rec := get(t, router, "/admin/articles?status=published")
	assertStatus(t, rec, http.StatusOK)

	rec = get(t, router, "/admin/articles?status=bogus")
	assertStatus(t, rec, http.StatusOK)
}

// postFormRequest serves a prepared request, for tests that need headers.
func postFormRequest(t *testing.T, router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
