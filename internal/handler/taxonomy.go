// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Alban-i/manhaj-admin-sub002/internal/cache"
	"github.com/Alban-i/manhaj-admin-sub002/internal/render"
	"github.com/Alban-i/manhaj-admin-sub002/internal/store"
	"github.com/Alban-i/manhaj-admin-sub002/internal/util"
)

// TaxonomyHandler manages tags and categories with their per-language
// names.
type TaxonomyHandler struct {
	queries   *store.Queries
	renderer  *render.Renderer
	languages *cache.LanguageCache
}

// NewTaxonomyHandler creates a TaxonomyHandler.
func NewTaxonomyHandler(db *sql.DB, renderer *render.Renderer, languages *cache.LanguageCache) *TaxonomyHandler {
	return &TaxonomyHandler{
		queries:   store.New(db),
		renderer:  renderer,
		languages: languages,
	}
}

// TagRoutes registers the tag routes.
func (h *TaxonomyHandler) TagRoutes(r chi.Router) {
	r.Get("/", h.ListTags)
	r.Get("/new", h.NewTagForm)
	r.Post("/", h.CreateTag)
	r.Get("/{id}", h.EditTagForm)
	r.Post("/{id}", h.UpdateTag)
	r.Post("/{id}/delete", h.DeleteTag)
}

// CategoryRoutes registers the category routes.
func (h *TaxonomyHandler) CategoryRoutes(r chi.Router) {
	r.Get("/", h.ListCategories)
	r.Get("/new", h.NewCategoryForm)
	r.Post("/", h.CreateCategory)
	r.Get("/{id}", h.EditCategoryForm)
	r.Post("/{id}", h.UpdateCategory)
	r.Post("/{id}/delete", h.DeleteCategory)
}

// TaxonomyFormData holds data for the tag and category form templates.
type TaxonomyFormData struct {
	Entity       string // "tag" or "category"
	Path         string // route segment: "tags" or "categories"
	ID           string
	Slug         string
	Name         string
	Translations map[string]string // language code -> name
	Errors       map[string]string
	IsEdit       bool
}

// nameBatch collects the per-language name fields of a taxonomy form. The
// default-language name is part of the batch, so a submission with a valid
// name never produces an empty batch.
func (h *TaxonomyHandler) nameBatch(r *http.Request, name string) []store.NameTranslation {
	defaultCode := h.languages.DefaultCode(r.Context())
	batch := []store.NameTranslation{{Language: defaultCode, Name: name}}

	languages, err := h.languages.GetActive(r.Context())
	if err != nil {
		slog.Error("failed to load languages", "error", err)
		return batch
	}
	for _, lang := range languages {
		if lang.Code == defaultCode {
			continue
		}
		batch = append(batch, store.NameTranslation{
			Language: lang.Code,
			Name:     strings.TrimSpace(r.FormValue("name_" + lang.Code)),
		})
	}
	return batch
}

func (h *TaxonomyHandler) translationMap(r *http.Request, entries []store.NameTranslation) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.Language] = e.Name
	}
	return m
}

// ListTags handles GET /admin/tags.
func (h *TaxonomyHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.queries.ListTags(r.Context())
	if err != nil {
		slog.Error("failed to list tags", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin/taxonomy_list", "Tags", map[string]any{
		"Entity": "tag",
		"Path":   "tags",
		"Items":  tags,
	})
}

// NewTagForm handles GET /admin/tags/new.
func (h *TaxonomyHandler) NewTagForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin/taxonomy_form", "New Tag", TaxonomyFormData{
		Entity: "tag", Path: "tags",
		Errors: make(map[string]string),
	})
}

// CreateTag handles POST /admin/tags.
func (h *TaxonomyHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.SetFlash(r, "Invalid form data", "error")
		http.Redirect(w, r, "/admin/tags/new", http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	slug := strings.TrimSpace(r.FormValue("slug"))
	formErrors := make(map[string]string)

	if name == "" {
		formErrors["name"] = "Name is required"
	}
	if slug == "" {
		slug = util.Slugify(name)
	}
	if slug == "" {
		formErrors["slug"] = "Slug is required"
	} else if !util.IsValidSlug(slug) {
		formErrors["slug"] = "Invalid slug format"
	} else if exists, err := h.queries.TagSlugExists(r.Context(), slug); err != nil {
		slog.Error("database error checking slug", "error", err)
		formErrors["slug"] = "Error checking slug"
	} else if exists {
		formErrors["slug"] = "Slug already exists"
	}

	batch := h.nameBatch(r, name)
	if len(formErrors) > 0 {
		h.render(w, r, "admin/taxonomy_form", "New Tag", TaxonomyFormData{
			Entity: "tag", Path: "tags", Slug: slug, Name: name,
			Translations: h.translationMap(r, batch),
			Errors:       formErrors,
		})
		return
	}

	id := uuid.NewString()
	now := time.Now()
	if err := h.queries.CreateTag(r.Context(), store.CreateTagParams{
		ID: id, Slug: slug, Name: name, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		slog.Error("failed to create tag", "error", err)
		h.renderer.SetFlash(r, "Error creating tag", "error")
		http.Redirect(w, r, "/admin/tags/new", http.StatusSeeOther)
		return
	}

	if err := h.queries.UpsertTagTranslations(r.Context(), id, batch); err != nil && !errors.Is(err, store.ErrEmptyBatch) {
		slog.Error("failed to save tag translations", "tag", id, "error", err)
	}

	h.renderer.SetFlash(r, "Tag created successfully", "success")
	http.Redirect(w, r, "/admin/tags", http.StatusSeeOther)
}

// EditTagForm handles GET /admin/tags/{id}.
func (h *TaxonomyHandler) EditTagForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tag, err := h.queries.GetTagByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.renderer.SetFlash(r, "Tag not found", "error")
		} else {
			slog.Error("failed to get tag", "id", id, "error", err)
			h.renderer.SetFlash(r, "Error loading tag", "error")
		}
		http.Redirect(w, r, "/admin/tags", http.StatusSeeOther)
		return
	}

	translations, err := h.queries.ListTagTranslations(r.Context(), id)
	if err != nil {
		slog.Error("failed to list tag translations", "id", id, "error", err)
	}

	h.render(w, r, "admin/taxonomy_form", "Edit Tag", TaxonomyFormData{
		Entity: "tag", Path: "tags", ID: tag.ID, Slug: tag.Slug, Name: tag.Name,
		Translations: h.translationMap(r, translations),
		Errors:       make(map[string]string),
		IsEdit:       true,
	})
}

// UpdateTag handles POST /admin/tags/{id}. The translation batch is
// validated as a whole: when every name including the default is blank,
// nothing is written.
func (h *TaxonomyHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		h.renderer.SetFlash(r, "Invalid form data", "error")
		http.Redirect(w, r, "/admin/tags/"+id, http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	slug := strings.TrimSpace(r.FormValue("slug"))
	if name == "" || slug == "" || !util.IsValidSlug(slug) {
		h.renderer.SetFlash(r, "Name and a valid slug are required", "error")
		http.Redirect(w, r, "/admin/tags/"+id, http.StatusSeeOther)
		return
	}

	if err := h.queries.UpdateTag(r.Context(), id, slug, name, time.Now()); err != nil {
		slog.Error("failed to update tag", "id", id, "error", err)
		h.renderer.SetFlash(r, "Error updating tag", "error")
		http.Redirect(w, r, "/admin/tags/"+id, http.StatusSeeOther)
		return
	}

	if err := h.queries.UpsertTagTranslations(r.Context(), id, h.nameBatch(r, name)); err != nil {
		if errors.Is(err, store.ErrEmptyBatch) {
			h.renderer.SetFlash(r, "At least one translated name is required", "error")
		} else {
			slog.Error("failed to save tag translations", "tag", id, "error", err)
			h.renderer.SetFlash(r, "Error saving translations", "error")
		}
		http.Redirect(w, r, "/admin/tags/"+id, http.StatusSeeOther)
		return
	}

	h.renderer.SetFlash(r, "Tag updated successfully", "success")
	http.Redirect(w, r, "/admin/tags", http.StatusSeeOther)
}

// DeleteTag handles POST /admin/tags/{id}/delete.
func (h *TaxonomyHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.queries.DeleteTag(r.Context(), id); err != nil {
		slog.Error("failed to delete tag", "id", id, "error", err)
		http.Error(w, "Error deleting tag", http.StatusInternalServerError)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.WriteHeader(http.StatusOK)
		return
	}
	h.renderer.SetFlash(r, "Tag deleted successfully", "success")
	http.Redirect(w, r, "/admin/tags", http.StatusSeeOther)
}

// ListCategories handles GET /admin/categories.
func (h *TaxonomyHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queries.ListCategories(r.Context())
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin/taxonomy_list", "Categories", map[string]any{
		"Entity": "category",
		"Path":   "categories",
		"Items":  categories,
	})
}

// NewCategoryForm handles GET /admin/categories/new.
func (h *TaxonomyHandler) NewCategoryForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin/taxonomy_form", "New Category", TaxonomyFormData{
		Entity: "category", Path: "categories",
		Errors: make(map[string]string),
	})
}

// CreateCategory handles POST /admin/categories.
func (h *TaxonomyHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.SetFlash(r, "Invalid form data", "error")
		http.Redirect(w, r, "/admin/categories/new", http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	slug := strings.TrimSpace(r.FormValue("slug"))
	formErrors := make(map[string]string)

	if name == "" {
		formErrors["name"] = "Name is required"
	}
	if slug == "" {
		slug = util.Slugify(name)
	}
	if slug == "" {
		formErrors["slug"] = "Slug is required"
	} else if !util.IsValidSlug(slug) {
		formErrors["slug"] = "Invalid slug format"
	} else if exists, err := h.queries.CategorySlugExists(r.Context(), slug); err != nil {
		slog.Error("database error checking slug", "error", err)
		formErrors["slug"] = "Error checking slug"
	} else if exists {
		formErrors["slug"] = "Slug already exists"
	}

	batch := h.nameBatch(r, name)
	if len(formErrors) > 0 {
		h.render(w, r, "admin/taxonomy_form", "New Category", TaxonomyFormData{
			Entity: "category", Path: "categories", Slug: slug, Name: name,
			Translations: h.translationMap(r, batch),
			Errors:       formErrors,
		})
		return
	}

	id := uuid.NewString()
	now := time.Now()
	if err := h.queries.CreateCategory(r.Context(), store.CreateCategoryParams{
		ID: id, Slug: slug, Name: name, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		slog.Error("failed to create category", "error", err)
		h.renderer.SetFlash(r, "Error creating category", "error")
		http.Redirect(w, r, "/admin/categories/new", http.StatusSeeOther)
		return
	}

	if err := h.queries.UpsertCategoryTranslations(r.Context(), id, batch); err != nil && !errors.Is(err, store.ErrEmptyBatch) {
		slog.Error("failed to save category translations", "category", id, "error", err)
	}

	h.renderer.SetFlash(r, "Category created successfully", "success")
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// EditCategoryForm handles GET /admin/categories/{id}.
func (h *TaxonomyHandler) EditCategoryForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	category, err := h.queries.GetCategoryByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.renderer.SetFlash(r, "Category not found", "error")
		} else {
			slog.Error("failed to get category", "id", id, "error", err)
			h.renderer.SetFlash(r, "Error loading category", "error")
		}
		http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
		return
	}

	translations, err := h.queries.ListCategoryTranslations(r.Context(), id)
	if err != nil {
		slog.Error("failed to list category translations", "id", id, "error", err)
	}

	h.render(w, r, "admin/taxonomy_form", "Edit Category", TaxonomyFormData{
		Entity: "category", Path: "categories", ID: category.ID, Slug: category.Slug, Name: category.Name,
		Translations: h.translationMap(r, translations),
		Errors:       make(map[string]string),
		IsEdit:       true,
	})
}

// UpdateCategory handles POST /admin/categories/{id}.
func (h *TaxonomyHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		h.renderer.SetFlash(r, "Invalid form data", "error")
		http.Redirect(w, r, "/admin/categories/"+id, http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	slug := strings.TrimSpace(r.FormValue("slug"))
	if name == "" || slug == "" || !util.IsValidSlug(slug) {
		h.renderer.SetFlash(r, "Name and a valid slug are required", "error")
		http.Redirect(w, r, "/admin/categories/"+id, http.StatusSeeOther)
		return
	}

	if err := h.queries.UpdateCategory(r.Context(), id, slug, name, time.Now()); err != nil {
		slog.Error("failed to update category", "id", id, "error", err)
		h.renderer.SetFlash(r, "Error updating category", "error")
		http.Redirect(w, r, "/admin/categories/"+id, http.StatusSeeOther)
		return
	}

	if err := h.queries.UpsertCategoryTranslations(r.Context(), id, h.nameBatch(r, name)); err != nil {
		if errors.Is(err, store.ErrEmptyBatch) {
			h.renderer.SetFlash(r, "At least one translated name is required", "error")
		} else {
			slog.Error("failed to save category translations", "category", id, "error", err)
			h.renderer.SetFlash(r, "Error saving translations", "error")
		}
		http.Redirect(w, r, "/admin/categories/"+id, http.StatusSeeOther)
		return
	}

	h.renderer.SetFlash(r, "Category updated successfully", "success")
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// DeleteCategory handles POST /admin/categories/{id}/delete.
func (h *TaxonomyHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.queries.DeleteCategory(r.Context(), id); err != nil {
		slog.Error("failed to delete category", "id", id, "error", err)
		http.Error(w, "Error deleting category", http.StatusInternalServerError)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.WriteHeader(http.StatusOK)
		return
	}
	h.renderer.SetFlash(r, "Category deleted successfully", "success")
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

func (h *TaxonomyHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	languages, err := h.languages.GetActive(r.Context())
	if err != nil {
		slog.Error("failed to load languages", "error", err)
	}

	if err := h.renderer.Render(w, r, name, render.TemplateData{
		Title:     title,
		Data:      data,
		Languages: languages,
		Lang:      h.languages.DefaultCode(r.Context()),
	}); err != nil {
		slog.Error("render error", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
