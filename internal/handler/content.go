// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the admin HTTP handlers. One generic content
// handler serves all translatable kinds; taxonomy, languages, events and
// the dashboard get their own handlers.
package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Alban-i/manhaj-admin-sub002/internal/cache"
	"github.com/Alban-i/manhaj-admin-sub002/internal/markdown"
	"github.com/Alban-i/manhaj-admin-sub002/internal/model"
	"github.com/Alban-i/manhaj-admin-sub002/internal/render"
	"github.com/Alban-i/manhaj-admin-sub002/internal/store"
	"github.com/Alban-i/manhaj-admin-sub002/internal/util"
)

// ContentPerPage is the number of translations per list page.
const ContentPerPage = 20

// ContentHandler serves the admin CRUD flows of one content kind. The
// same handler code runs for articles, fatwas, individuals, themes and
// timelines; only the Kind differs.
type ContentHandler struct {
	db        *sql.DB
	queries   *store.Queries
	renderer  *render.Renderer
	languages *cache.LanguageCache
	kind      model.Kind
}

// NewContentHandler creates a ContentHandler for one kind.
func NewContentHandler(db *sql.DB, renderer *render.Renderer, languages *cache.LanguageCache, kind model.Kind) *ContentHandler {
	return &ContentHandler{
		db:        db,
		queries:   store.New(db),
		renderer:  renderer,
		languages: languages,
		kind:      kind,
	}
}

// Routes registers the handler's routes on a router mounted at the kind's
// admin path.
func (h *ContentHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{identifier}", h.EditForm)
	r.Post("/{id}", h.Update)
	r.Post("/{id}/delete", h.Delete)
	r.Post("/{id}/status", h.UpdateStatus)
	r.Post("/{id}/translate", h.Translate)
}

func (h *ContentHandler) listPath() string {
	return "/admin/" + h.kind.Plural
}

func (h *ContentHandler) editPath(id string) string {
	return h.listPath() + "/" + id
}

// ContentListData holds data for the content list template.
type ContentListData struct {
	Kind         model.Kind
	Rows         []store.ContentRow
	Pagination   Pagination
	StatusFilter string
	Statuses     []string
}

// List handles GET /admin/{kind} - paginated translation list.
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")
	if statusFilter != "" && statusFilter != "all" && !model.IsValidStatus(statusFilter) {
		statusFilter = ""
	}

	totalCount, err := h.queries.CountContent(r.Context(), h.kind, statusFilter)
	if err != nil {
		slog.Error("failed to count content", "kind", h.kind.Name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p := NewPagination(r, totalCount, ContentPerPage)
	rows, err := h.queries.ListContent(r.Context(), h.kind, store.ListContentParams{
		Status: statusFilter,
		Limit:  ContentPerPage,
		Offset: p.Offset(),
	})
	if err != nil {
		slog.Error("failed to list content", "kind", h.kind.Name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "admin/content_list", titled(h.kind.Plural), ContentListData{
		Kind:         h.kind,
		Rows:         rows,
		Pagination:   p,
		StatusFilter: statusFilter,
		Statuses:     model.ValidStatuses,
	})
}

// ContentFormData holds data for the content form template.
type ContentFormData struct {
	Kind                model.Kind
	Row                 *store.ContentRow
	Metadata            model.GroupMetadata
	Siblings            []model.Sibling
	SelectedTags        []string
	SelectedTranslators []string
	Tags                []store.Tag
	Categories          []store.Category
	Authors             []store.Author
	Individuals         []store.ContentRow
	Statuses            []string
	Errors              map[string]string
	FormValues          map[string]string
	Preview             template.HTML
	IsEdit              bool
}

// EditForm handles GET /admin/{kind}/{identifier}. The identifier is
// classified exactly once: the "new" sentinel renders an empty form with
// no storage lookup, a UUID resolves by id, anything else by slug.
func (h *ContentHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	row, err := h.queries.FindTranslation(r.Context(), h.kind, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.renderer.SetFlash(r, titled(h.kind.Name)+" not found", "error")
			http.Redirect(w, r, h.listPath(), http.StatusSeeOther)
			return
		}
		slog.Error("failed to resolve identifier", "kind", h.kind.Name, "identifier", identifier, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := ContentFormData{
		Kind:       h.kind,
		Statuses:   model.ValidStatuses,
		Errors:     make(map[string]string),
		FormValues: make(map[string]string),
	}
	h.loadFormOptions(r, &data)

	title := "New " + titled(h.kind.Name)
	lang := h.languages.DefaultCode(r.Context())

	if row != nil {
		data.Row = row
		data.Metadata = row.Metadata()
		data.IsEdit = true
		title = "Edit " + titled(h.kind.Name)
		if row.Translation.Language.Valid && row.Translation.Language.String != "" {
			lang = row.Translation.Language.String
		}

		if row.Translation.GroupID.Valid {
			siblings, err := h.queries.ListSiblings(r.Context(), h.kind,
				row.Translation.GroupID.String, h.languages.DefaultCode(r.Context()))
			if err != nil {
				slog.Error("failed to list siblings", "kind", h.kind.Name, "error", err)
			}
			data.Siblings = siblings
		}

		// Association resolution degrades to an empty list on failure;
		// the form stays usable.
		if tags, err := h.queries.ResolveAssociations(r.Context(), h.kind, *row, model.AssociationTags); err == nil {
			data.SelectedTags = tags
		} else {
			slog.Error("failed to resolve tags", "kind", h.kind.Name, "error", err)
		}
		if h.kind.HasTranslators() {
			if translators, err := h.queries.ResolveAssociations(r.Context(), h.kind, *row, model.AssociationTranslators); err == nil {
				data.SelectedTranslators = translators
			} else {
				slog.Error("failed to resolve translators", "kind", h.kind.Name, "error", err)
			}
		}

		if body := strings.TrimSpace(row.Translation.Body); body != "" {
			preview, err := markdown.Render(body)
			if err != nil {
				slog.Error("failed to render body preview", "kind", h.kind.Name, "error", err)
			} else {
				data.Preview = preview
			}
		}
	}

	h.renderWithLang(w, r, "admin/content_form", title, lang, data)
}

// contentForm is the parsed and trimmed form of a create/update request.
type contentForm struct {
	Title        string
	Slug         string
	Language     string
	Body         string
	Summary      string
	HijriDate    string
	AuthorID     string
	CategoryID   string
	IndividualID string
	ImageURL     string
	Tags         []string
	Translators  []string
}

func (h *ContentHandler) parseContentForm(r *http.Request) contentForm {
	return contentForm{
		Title:        strings.TrimSpace(r.FormValue("title")),
		Slug:         strings.TrimSpace(r.FormValue("slug")),
		Language:     strings.TrimSpace(r.FormValue("language")),
		Body:         r.FormValue("body"),
		Summary:      strings.TrimSpace(r.FormValue("summary")),
		HijriDate:    strings.TrimSpace(r.FormValue("hijri_date")),
		AuthorID:     strings.TrimSpace(r.FormValue("author_id")),
		CategoryID:   strings.TrimSpace(r.FormValue("category_id")),
		IndividualID: strings.TrimSpace(r.FormValue("individual_id")),
		ImageURL:     strings.TrimSpace(r.FormValue("image_url")),
		Tags:         r.Form["tags"],
		Translators:  r.Form["translators"],
	}
}

func (f contentForm) values() map[string]string {
	return map[string]string{
		"title":         f.Title,
		"slug":          f.Slug,
		"language":      f.Language,
		"body":          f.Body,
		"summary":       f.Summary,
		"hijri_date":    f.HijriDate,
		"author_id":     f.AuthorID,
		"category_id":   f.CategoryID,
		"individual_id": f.IndividualID,
		"image_url":     f.ImageURL,
	}
}

// validate fills the slug from the title when empty and checks the field
// constraints shared by create and update. excludeID carries the row id
// on updates so the slug uniqueness check skips the row itself.
func (h *ContentHandler) validateContentForm(r *http.Request, f *contentForm, excludeID string) map[string]string {
	formErrors := make(map[string]string)

	if f.Title == "" {
		formErrors["title"] = "Title is required"
	}

	if f.Slug == "" {
		f.Slug = util.Slugify(f.Title)
	}
	if f.Slug == "" {
		formErrors["slug"] = "Slug is required"
	} else if !util.IsValidSlug(f.Slug) {
		formErrors["slug"] = "Invalid slug format (use lowercase letters, numbers, and hyphens)"
	} else {
		exists, err := h.queries.ContentSlugExists(r.Context(), h.kind, f.Slug, f.Language, excludeID)
		if err != nil {
			slog.Error("database error checking slug", "kind", h.kind.Name, "error", err)
			formErrors["slug"] = "Error checking slug"
		} else if exists {
			formErrors["slug"] = "Slug already in use for this language"
		}
	}

	if f.Language == "" {
		f.Language = h.languages.DefaultCode(r.Context())
	}
	active, err := h.languages.IsActiveCode(r.Context(), f.Language)
	if err != nil {
		slog.Error("failed to check language", "code", f.Language, "error", err)
		formErrors["language"] = "Error checking language"
	} else if !active {
		formErrors["language"] = "Unknown or inactive language"
	}

	return formErrors
}

// Create handles POST /admin/{kind}. New content always gets a group row;
// the legacy inline columns stay NULL.
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.SetFlash(r, "Invalid form data", "error")
		http.Redirect(w, r, h.editPath("new"), http.StatusSeeOther)
		return
	}

	f := h.parseContentForm(r)
	formErrors := h.validateContentForm(r, &f, "")
	if len(formErrors) > 0 {
		data := ContentFormData{
			Kind:       h.kind,
			Statuses:   model.ValidStatuses,
			Errors:     formErrors,
			FormValues: f.values(),
		}
		h.loadFormOptions(r, &data)
		h.renderWithLang(w, r, "admin/content_form", "New "+titled(h.kind.Name), f.Language, data)
		return
	}

	now := time.Now()
	groupID := uuid.NewString()
	translationID := uuid.NewString()

	err := h.inTx(r, func(q *store.Queries) error {
		if err := q.CreateGroup(r.Context(), h.kind, store.CreateGroupParams{
			ID:           groupID,
			AuthorID:     nullString(f.AuthorID),
			CategoryID:   nullString(f.CategoryID),
			IndividualID: nullString(f.IndividualID),
			ImageURL:     nullString(f.ImageURL),
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return fmt.Errorf("creating group: %w", err)
		}
		if err := q.CreateTranslation(r.Context(), h.kind, store.CreateTranslationParams{
			ID:         translationID,
			GroupID:    sql.NullString{String: groupID, Valid: true},
			Language:   f.Language,
			Slug:       f.Slug,
			Title:      f.Title,
			Body:       f.Body,
			Summary:    f.Summary,
			HijriDate:  f.HijriDate,
			Status:     model.StatusDraft,
			IsOriginal: true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return fmt.Errorf("creating translation: %w", err)
		}
		return h.writeAssociations(r, q, groupID, f)
	})
	if err != nil {
		slog.Error("failed to create content", "kind", h.kind.Name, "error", err)
		h.renderer.SetFlash(r, "Error creating "+h.kind.Name, "error")
		http.Redirect(w, r, h.editPath("new"), http.StatusSeeOther)
		return
	}

	slog.Info("content created", "kind", h.kind.Name, "id", translationID, "slug", f.Slug)
	h.renderer.SetFlash(r, titled(h.kind.Name)+" created successfully", "success")
	http.Redirect(w, r, h.editPath(translationID), http.StatusSeeOther)
}

// Update handles POST /admin/{kind}/{id}. A legacy row gets its group
// created on first save, so metadata writes always land centralized.
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	row, err := h.findRow(w, r, id)
	if row == nil || err != nil {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.SetFlash(r, "Invalid form data", "error")
		http.Redirect(w, r, h.editPath(id), http.StatusSeeOther)
		return
	}

	f := h.parseContentForm(r)
	if f.Language == "" && row.Translation.Language.Valid {
		f.Language = row.Translation.Language.String
	}
	formErrors := h.validateContentForm(r, &f, id)
	if len(formErrors) > 0 {
		data := ContentFormData{
			Kind:       h.kind,
			Row:        row,
			Metadata:   row.Metadata(),
			Statuses:   model.ValidStatuses,
			Errors:     formErrors,
			FormValues: f.values(),
			IsEdit:     true,
		}
		h.loadFormOptions(r, &data)
		h.renderWithLang(w, r, "admin/content_form", "Edit "+titled(h.kind.Name), f.Language, data)
		return
	}

	now := time.Now()
	err = h.inTx(r, func(q *store.Queries) error {
		groupID, err := h.ensureGroup(r, q, row, now)
		if err != nil {
			return err
		}
		if err := q.UpdateGroup(r.Context(), h.kind, store.UpdateGroupParams{
			ID:           groupID,
			AuthorID:     nullString(f.AuthorID),
			CategoryID:   nullString(f.CategoryID),
			IndividualID: nullString(f.IndividualID),
			ImageURL:     nullString(f.ImageURL),
			UpdatedAt:    now,
		}); err != nil {
			return fmt.Errorf("updating group: %w", err)
		}
		if err := q.UpdateTranslation(r.Context(), h.kind, store.UpdateTranslationParams{
			ID:        id,
			Slug:      f.Slug,
			Title:     f.Title,
			Body:      f.Body,
			Summary:   f.Summary,
			HijriDate: f.HijriDate,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("updating translation: %w", err)
		}
		if err := q.ClearAssociations(r.Context(), h.kind, model.AssociationTags, groupID); err != nil {
			return fmt.Errorf("clearing tags: %w", err)
		}
		if h.kind.HasTranslators() {
			if err := q.ClearAssociations(r.Context(), h.kind, model.AssociationTranslators, groupID); err != nil {
				return fmt.Errorf("clearing translators: %w", err)
			}
		}
		return h.writeAssociations(r, q, groupID, f)
	})
	if err != nil {
		slog.Error("failed to update content", "kind", h.kind.Name, "id", id, "error", err)
		h.renderer.SetFlash(r, "Error updating "+h.kind.Name, "error")
		http.Redirect(w, r, h.editPath(id), http.StatusSeeOther)
		return
	}

	slog.Info("content updated", "kind", h.kind.Name, "id", id, "slug", f.Slug)
	h.renderer.SetFlash(r, titled(h.kind.Name)+" updated successfully", "success")
	http.Redirect(w, r, h.editPath(id), http.StatusSeeOther)
}

// Delete handles POST /admin/{kind}/{id}/delete. The group row stays even
// when the last translation goes; the dashboard surfaces orphaned groups.
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	row, err := h.queries.FindTranslation(r.Context(), h.kind, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, titled(h.kind.Name)+" not found", http.StatusNotFound)
			return
		}
		slog.Error("failed to load content", "kind", h.kind.Name, "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if row == nil {
		http.Error(w, "Invalid identifier", http.StatusBadRequest)
		return
	}

	if err := h.queries.DeleteTranslation(r.Context(), h.kind, row.Translation.ID); err != nil {
		slog.Error("failed to delete content", "kind", h.kind.Name, "id", id, "error", err)
		http.Error(w, "Error deleting "+h.kind.Name, http.StatusInternalServerError)
		return
	}

	slog.Info("content deleted", "kind", h.kind.Name, "id", id, "slug", row.Translation.Slug)

	// HTMX requests get an empty response; the row is already gone.
	if r.Header.Get("HX-Request") == "true" {
		w.WriteHeader(http.StatusOK)
		return
	}

	h.renderer.SetFlash(r, titled(h.kind.Name)+" deleted successfully", "success")
	http.Redirect(w, r, h.listPath(), http.StatusSeeOther)
}

// UpdateStatus handles POST /admin/{kind}/{id}/status. Transitions are
// editor actions only: draft <-> published, draft -> archived.
func (h *ContentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	row, err := h.findRow(w, r, id)
	if row == nil || err != nil {
		return
	}

	target := r.FormValue("status")
	if !model.IsValidStatus(target) {
		h.renderer.SetFlash(r, "Invalid status", "error")
		http.Redirect(w, r, h.editPath(id), http.StatusSeeOther)
		return
	}

	current := row.Translation.Status.String
	if current == "" {
		current = model.StatusDraft
	}
	if !model.CanTransition(current, target) {
		h.renderer.SetFlash(r, fmt.Sprintf("Cannot change status from %s to %s", current, target), "error")
		http.Redirect(w, r, h.editPath(id), http.StatusSeeOther)
		return
	}

	if err := h.queries.UpdateTranslationStatus(r.Context(), h.kind, row.Translation.ID, target, time.Now()); err != nil {
		slog.Error("failed to update status", "kind", h.kind.Name, "id", id, "error", err)
		h.renderer.SetFlash(r, "Error updating status", "error")
		http.Redirect(w, r, h.editPath(id), http.StatusSeeOther)
		return
	}

	slog.Info("content status changed", "kind", h.kind.Name, "id", id, "from", current, "to", target)
	h.renderer.SetFlash(r, "Status updated to "+target, "success")
	http.Redirect(w, r, h.editPath(id), http.StatusSeeOther)
}

// Translate handles POST /admin/{kind}/{id}/translate - creates a sibling
// draft in the target language. A legacy source row gets its group created
// first, seeded from the resolved metadata, so both rows share it.
func (h *ContentHandler) Translate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	row, err := h.findRow(w, r, id)
	if row == nil || err != nil {
		return
	}

	target := strings.TrimSpace(r.FormValue("language"))
	active, err := h.languages.IsActiveCode(r.Context(), target)
	if err != nil || !active {
		h.renderer.SetFlash(r, "Unknown or inactive language", "error")
		http.Redirect(w, r, h.editPath(id), http.StatusSeeOther)
		return
	}
	if row.Translation.Language.Valid && row.Translation.Language.String == target {
		h.renderer.SetFlash(r, "The "+h.kind.Name+" is already in this language", "error")
		http.Redirect(w, r, h.editPath(id), http.StatusSeeOther)
		return
	}

	if row.Translation.GroupID.Valid {
		if existing, err := h.queries.TranslationForLanguage(r.Context(), h.kind, row.Translation.GroupID.String, target); err == nil {
			h.renderer.SetFlash(r, "A "+target+" translation already exists", "info")
			http.Redirect(w, r, h.editPath(existing), http.StatusSeeOther)
			return
		}
	}

	now := time.Now()
	newID := uuid.NewString()
	err = h.inTx(r, func(q *store.Queries) error {
		groupID, err := h.ensureGroup(r, q, row, now)
		if err != nil {
			return err
		}

		slug := siblingSlug(r.Context(), q, h.kind, row.Translation.Slug, target)
		return q.CreateTranslation(r.Context(), h.kind, store.CreateTranslationParams{
			ID:         newID,
			GroupID:    sql.NullString{String: groupID, Valid: true},
			Language:   target,
			Slug:       slug,
			Title:      row.Translation.Title,
			Body:       row.Translation.Body,
			Summary:    row.Translation.Summary,
			HijriDate:  row.Translation.HijriDate,
			Status:     model.StatusDraft,
			IsOriginal: false,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	})
	if err != nil {
		slog.Error("failed to create translation", "kind", h.kind.Name, "id", id, "target", target, "error", err)
		h.renderer.SetFlash(r, "Error creating translation", "error")
		http.Redirect(w, r, h.editPath(id), http.StatusSeeOther)
		return
	}

	slog.Info("translation created", "kind", h.kind.Name, "source", id, "id", newID, "language", target)
	h.renderer.SetFlash(r, "Translation created; it starts as a draft copy", "success")
	http.Redirect(w, r, h.editPath(newID), http.StatusSeeOther)
}

// findRow resolves an id to an existing row, handling the error responses.
// A nil row means the response was already written.
func (h *ContentHandler) findRow(w http.ResponseWriter, r *http.Request, id string) (*store.ContentRow, error) {
	row, err := h.queries.FindTranslation(r.Context(), h.kind, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.renderer.SetFlash(r, titled(h.kind.Name)+" not found", "error")
			http.Redirect(w, r, h.listPath(), http.StatusSeeOther)
			return nil, nil
		}
		slog.Error("failed to load content", "kind", h.kind.Name, "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, err
	}
	if row == nil {
		h.renderer.SetFlash(r, "Invalid identifier", "error")
		http.Redirect(w, r, h.listPath(), http.StatusSeeOther)
		return nil, nil
	}
	return row, nil
}

// ensureGroup returns the row's group id, creating the group from the
// resolved legacy metadata and attaching it when the row has none.
func (h *ContentHandler) ensureGroup(r *http.Request, q *store.Queries, row *store.ContentRow, now time.Time) (string, error) {
	if row.Translation.GroupID.Valid {
		return row.Translation.GroupID.String, nil
	}

	meta := row.Metadata()
	groupID := uuid.NewString()
	if err := q.CreateGroup(r.Context(), h.kind, store.CreateGroupParams{
		ID:           groupID,
		AuthorID:     nullString(meta.AuthorID),
		CategoryID:   nullString(meta.CategoryID),
		IndividualID: nullString(meta.IndividualID),
		ImageURL:     nullString(meta.ImageURL),
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return "", fmt.Errorf("creating group for legacy row: %w", err)
	}
	if err := q.AttachGroup(r.Context(), h.kind, row.Translation.ID, groupID); err != nil {
		return "", fmt.Errorf("attaching group: %w", err)
	}
	return groupID, nil
}

// writeAssociations stores the submitted tag and translator selections in
// form order.
func (h *ContentHandler) writeAssociations(r *http.Request, q *store.Queries, groupID string, f contentForm) error {
	for i, tagID := range f.Tags {
		if err := q.AddAssociation(r.Context(), h.kind, model.AssociationTags, groupID, tagID,
			sql.NullInt64{Int64: int64(i), Valid: true}); err != nil {
			return fmt.Errorf("adding tag: %w", err)
		}
	}
	if h.kind.HasTranslators() {
		for i, individualID := range f.Translators {
			if err := q.AddAssociation(r.Context(), h.kind, model.AssociationTranslators, groupID, individualID,
				sql.NullInt64{Int64: int64(i), Valid: true}); err != nil {
				return fmt.Errorf("adding translator: %w", err)
			}
		}
	}
	return nil
}

// inTx runs fn with a transaction-scoped Queries.
func (h *ContentHandler) inTx(r *http.Request, fn func(q *store.Queries) error) error {
	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(store.New(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// loadFormOptions fills the select-box option lists. Failures log and
// leave the list empty rather than failing the page.
func (h *ContentHandler) loadFormOptions(r *http.Request, data *ContentFormData) {
	var err error
	if data.Tags, err = h.queries.ListTags(r.Context()); err != nil {
		slog.Error("failed to list tags", "error", err)
	}
	if data.Categories, err = h.queries.ListCategories(r.Context()); err != nil {
		slog.Error("failed to list categories", "error", err)
	}
	if data.Authors, err = h.queries.ListAuthors(r.Context()); err != nil {
		slog.Error("failed to list authors", "error", err)
	}
	if h.kind.HasTranslators() {
		if data.Individuals, err = h.queries.ListContent(r.Context(), model.KindIndividual,
			store.ListContentParams{Limit: 500}); err != nil {
			slog.Error("failed to list individuals", "error", err)
		}
	}
}

func (h *ContentHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	h.renderWithLang(w, r, name, title, h.languages.DefaultCode(r.Context()), data)
}

func (h *ContentHandler) renderWithLang(w http.ResponseWriter, r *http.Request, name, title, lang string, data any) {
	languages, err := h.languages.GetActive(r.Context())
	if err != nil {
		slog.Error("failed to load languages", "error", err)
	}

	isRTL := false
	if l, err := h.languages.GetByCode(r.Context(), lang); err == nil && l != nil {
		isRTL = l.Direction == "rtl"
	}

	if err := h.renderer.Render(w, r, name, render.TemplateData{
		Title:     title,
		Data:      data,
		Languages: languages,
		Lang:      lang,
		IsRTL:     isRTL,
	}); err != nil {
		slog.Error("render error", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// siblingSlug returns the source slug when free in the target language,
// else appends the language code.
func siblingSlug(ctx context.Context, q *store.Queries, kind model.Kind, slug, language string) string {
	exists, err := q.ContentSlugExists(ctx, kind, slug, language, "")
	if err != nil || !exists {
		return slug
	}
	return slug + "-" + language
}

// titled upper-cases the first letter for page titles and flash messages.
func titled(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// nullString maps an empty string to NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
