// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Alban-i/manhaj-admin-sub002/internal/cache"
	"github.com/Alban-i/manhaj-admin-sub002/internal/render"
	"github.com/Alban-i/manhaj-admin-sub002/internal/store"
	"github.com/Alban-i/manhaj-admin-sub002/internal/util"
)

// LanguagesHandler manages the configured editing languages. Every write
// invalidates the language cache so pickers and defaults update at once.
type LanguagesHandler struct {
	queries   *store.Queries
	renderer  *render.Renderer
	languages *cache.LanguageCache
}

// NewLanguagesHandler creates a LanguagesHandler.
func NewLanguagesHandler(db *sql.DB, renderer *render.Renderer, languages *cache.LanguageCache) *LanguagesHandler {
	return &LanguagesHandler{
		queries:   store.New(db),
		renderer:  renderer,
		languages: languages,
	}
}

// Routes registers the language routes.
func (h *LanguagesHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/{id}", h.Update)
	r.Post("/{id}/default", h.SetDefault)
	r.Post("/{id}/delete", h.Delete)
}

// List handles GET /admin/languages.
func (h *LanguagesHandler) List(w http.ResponseWriter, r *http.Request) {
	languages, err := h.queries.ListLanguages(r.Context())
	if err != nil {
		slog.Error("failed to list languages", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin/languages", "Languages", map[string]any{
		"AllLanguages": languages,
	})
}

// Create handles POST /admin/languages.
func (h *LanguagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.SetFlash(r, "Invalid form data", "error")
		http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
		return
	}

	code := strings.ToLower(strings.TrimSpace(r.FormValue("code")))
	name := strings.TrimSpace(r.FormValue("name"))
	nativeName := strings.TrimSpace(r.FormValue("native_name"))

	if !util.IsValidLangCode(code) {
		h.renderer.SetFlash(r, "Language code must be a two-letter ISO 639-1 code", "error")
		http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
		return
	}
	if name == "" {
		h.renderer.SetFlash(r, "Name is required", "error")
		http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
		return
	}
	if _, err := h.queries.GetLanguageByCode(r.Context(), code); err == nil {
		h.renderer.SetFlash(r, "Language already exists", "error")
		http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("failed to check language code", "code", code, "error", err)
		h.renderer.SetFlash(r, "Error creating language", "error")
		http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
		return
	}

	if nativeName == "" {
		nativeName = name
	}

	count, err := h.queries.CountLanguages(r.Context())
	if err != nil {
		slog.Error("failed to count languages", "error", err)
		count = 0
	}

	now := time.Now()
	lang, err := h.queries.CreateLanguage(r.Context(), store.CreateLanguageParams{
		Code:       code,
		Name:       name,
		NativeName: nativeName,
		IsDefault:  count == 0, // first language becomes the default
		IsActive:   r.FormValue("is_active") == "on",
		Direction:  h.direction(r),
		Position:   count,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		slog.Error("failed to create language", "code", code, "error", err)
		h.renderer.SetFlash(r, "Error creating language", "error")
		http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
		return
	}

	h.languages.Invalidate()
	slog.Info("language created", "code", lang.Code, "name", lang.Name)
	h.renderer.SetFlash(r, "Language created successfully", "success")
	http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
}

// Update handles POST /admin/languages/{id}.
func (h *LanguagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.SetFlash(r, "Invalid form data", "error")
		http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
		return
	}

	current, err := h.queries.GetLanguageByID(r.Context(), id)
	if err != nil {
		h.renderer.SetFlash(r, "Language not found", "error")
		http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = current.Name
	}
	nativeName := strings.TrimSpace(r.FormValue("native_name"))
	if nativeName == "" {
		nativeName = current.NativeName
	}
	position := current.Position
	if p, err := strconv.ParseInt(r.FormValue("position"), 10, 64); err == nil {
		position = p
	}

	// The default language stays active no matter what the form says.
	isActive := r.FormValue("is_active") == "on" || current.IsDefault

	if _, err := h.queries.UpdateLanguage(r.Context(), store.UpdateLanguageParams{
		ID:         id,
		Name:       name,
		NativeName: nativeName,
		IsActive:   isActive,
		Direction:  h.direction(r),
		Position:   position,
		UpdatedAt:  time.Now(),
	}); err != nil {
		slog.Error("failed to update language", "id", id, "error", err)
		h.renderer.SetFlash(r, "Error updating language", "error")
		http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
		return
	}

	h.languages.Invalidate()
	h.renderer.SetFlash(r, "Language updated successfully", "success")
	http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
}

// SetDefault handles POST /admin/languages/{id}/default.
func (h *LanguagesHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if _, err := h.queries.GetLanguageByID(r.Context(), id); err != nil {
		h.renderer.SetFlash(r, "Language not found", "error")
		http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
		return
	}

	if err := h.queries.SetDefaultLanguage(r.Context(), id); err != nil {
		slog.Error("failed to set default language", "id", id, "error", err)
		h.renderer.SetFlash(r, "Error setting default language", "error")
		http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
		return
	}

	h.languages.Invalidate()
	h.renderer.SetFlash(r, "Default language updated", "success")
	http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
}

// Delete handles POST /admin/languages/{id}/delete. The store refuses to
// delete the default language, so the row survives and the flash says so.
func (h *LanguagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	current, err := h.queries.GetLanguageByID(r.Context(), id)
	if err != nil {
		h.renderer.SetFlash(r, "Language not found", "error")
		http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
		return
	}
	if current.IsDefault {
		h.renderer.SetFlash(r, "The default language cannot be deleted", "error")
		http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
		return
	}

	if err := h.queries.DeleteLanguage(r.Context(), id); err != nil {
		slog.Error("failed to delete language", "id", id, "error", err)
		h.renderer.SetFlash(r, "Error deleting language", "error")
		http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
		return
	}

	h.languages.Invalidate()
	slog.Info("language deleted", "code", current.Code)
	h.renderer.SetFlash(r, "Language deleted successfully", "success")
	http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
}

func (h *LanguagesHandler) direction(r *http.Request) string {
	if r.FormValue("direction") == "rtl" {
		return "rtl"
	}
	return "ltr"
}

func (h *LanguagesHandler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.renderer.SetFlash(r, "Invalid language ID", "error")
		http.Redirect(w, r, "/admin/languages", http.StatusSeeOther)
		return 0, false
	}
	return id, true
}

func (h *LanguagesHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	languages, err := h.languages.GetActive(r.Context())
	if err != nil {
		slog.Error("failed to load languages", "error", err)
	}

	if err := h.renderer.Render(w, r, name, render.TemplateData{
		Title:     title,
		Data:      data,
		Languages: languages,
	}); err != nil {
		slog.Error("render error", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
