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

// AuthorsHandler manages the authors directory.
type AuthorsHandler struct {
	queries   *store.Queries
	renderer  *render.Renderer
	languages *cache.LanguageCache
}

// NewAuthorsHandler creates an AuthorsHandler.
func NewAuthorsHandler(db *sql.DB, renderer *render.Renderer, languages *cache.LanguageCache) *AuthorsHandler {
	return &AuthorsHandler{
		queries:   store.New(db),
		renderer:  renderer,
		languages: languages,
	}
}

// Routes registers the author routes.
func (h *AuthorsHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.NewForm)
	r.Post("/", h.Create)
	r.Get("/{id}", h.EditForm)
	r.Post("/{id}", h.Update)
	r.Post("/{id}/delete", h.Delete)
}

// AuthorFormData holds data for the author form template.
type AuthorFormData struct {
	Author store.Author
	Errors map[string]string
	IsEdit bool
}

// List handles GET /admin/authors.
func (h *AuthorsHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.queries.ListAuthors(r.Context())
	if err != nil {
		slog.Error("failed to list authors", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin/authors", "Authors", map[string]any{"Authors": authors})
}

// NewForm handles GET /admin/authors/new.
func (h *AuthorsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin/author_form", "New Author", AuthorFormData{
		Errors: make(map[string]string),
	})
}

// Create handles POST /admin/authors.
func (h *AuthorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.SetFlash(r, "Invalid form data", "error")
		http.Redirect(w, r, "/admin/authors/new", http.StatusSeeOther)
		return
	}

	author, formErrors := h.parseAuthorForm(r, store.Author{ID: uuid.NewString()})
	if len(formErrors) > 0 {
		h.render(w, r, "admin/author_form", "New Author", AuthorFormData{
			Author: author, Errors: formErrors,
		})
		return
	}

	now := time.Now()
	if err := h.queries.CreateAuthor(r.Context(), store.CreateAuthorParams{
		ID: author.ID, Name: author.Name, Slug: author.Slug, Bio: author.Bio,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		slog.Error("failed to create author", "error", err)
		h.renderer.SetFlash(r, "Error creating author", "error")
		http.Redirect(w, r, "/admin/authors/new", http.StatusSeeOther)
		return
	}

	h.renderer.SetFlash(r, "Author created successfully", "success")
	http.Redirect(w, r, "/admin/authors", http.StatusSeeOther)
}

// EditForm handles GET /admin/authors/{id}.
func (h *AuthorsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	author, err := h.queries.GetAuthorByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.renderer.SetFlash(r, "Author not found", "error")
		} else {
			slog.Error("failed to get author", "id", id, "error", err)
			h.renderer.SetFlash(r, "Error loading author", "error")
		}
		http.Redirect(w, r, "/admin/authors", http.StatusSeeOther)
		return
	}

	h.render(w, r, "admin/author_form", "Edit Author", AuthorFormData{
		Author: author, Errors: make(map[string]string), IsEdit: true,
	})
}

// Update handles POST /admin/authors/{id}.
func (h *AuthorsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		h.renderer.SetFlash(r, "Invalid form data", "error")
		http.Redirect(w, r, "/admin/authors/"+id, http.StatusSeeOther)
		return
	}

	author, formErrors := h.parseAuthorForm(r, store.Author{ID: id})
	if len(formErrors) > 0 {
		h.render(w, r, "admin/author_form", "Edit Author", AuthorFormData{
			Author: author, Errors: formErrors, IsEdit: true,
		})
		return
	}

	if err := h.queries.UpdateAuthor(r.Context(), id, author.Name, author.Slug, author.Bio, time.Now()); err != nil {
		slog.Error("failed to update author", "id", id, "error", err)
		h.renderer.SetFlash(r, "Error updating author", "error")
		http.Redirect(w, r, "/admin/authors/"+id, http.StatusSeeOther)
		return
	}

	h.renderer.SetFlash(r, "Author updated successfully", "success")
	http.Redirect(w, r, "/admin/authors", http.StatusSeeOther)
}

// Delete handles POST /admin/authors/{id}/delete. Content rows keep their
// author_id reference; the store nulls it out on delete.
func (h *AuthorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.queries.DeleteAuthor(r.Context(), id); err != nil {
		slog.Error("failed to delete author", "id", id, "error", err)
		http.Error(w, "Error deleting author", http.StatusInternalServerError)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.WriteHeader(http.StatusOK)
		return
	}
	h.renderer.SetFlash(r, "Author deleted successfully", "success")
	http.Redirect(w, r, "/admin/authors", http.StatusSeeOther)
}

func (h *AuthorsHandler) parseAuthorForm(r *http.Request, author store.Author) (store.Author, map[string]string) {
	author.Name = strings.TrimSpace(r.FormValue("name"))
	author.Slug = strings.TrimSpace(r.FormValue("slug"))
	author.Bio = strings.TrimSpace(r.FormValue("bio"))

	formErrors := make(map[string]string)
	if author.Name == "" {
		formErrors["name"] = "Name is required"
	}
	if author.Slug == "" {
		author.Slug = util.Slugify(author.Name)
	}
	if author.Slug == "" {
		formErrors["slug"] = "Slug is required"
	} else if !util.IsValidSlug(author.Slug) {
		formErrors["slug"] = "Invalid slug format"
	}
	return author, formErrors
}

func (h *AuthorsHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
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
