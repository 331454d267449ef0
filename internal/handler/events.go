// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Alban-i/manhaj-admin-sub002/internal/cache"
	"github.com/Alban-i/manhaj-admin-sub002/internal/model"
	"github.com/Alban-i/manhaj-admin-sub002/internal/render"
	"github.com/Alban-i/manhaj-admin-sub002/internal/store"
)

// EventsPerPage is the page size of the event log listing.
const EventsPerPage = 50

// EventsHandler shows the event log.
type EventsHandler struct {
	queries   *store.Queries
	renderer  *render.Renderer
	languages *cache.LanguageCache
}

// NewEventsHandler creates an EventsHandler.
func NewEventsHandler(db *sql.DB, renderer *render.Renderer, languages *cache.LanguageCache) *EventsHandler {
	return &EventsHandler{
		queries:   store.New(db),
		renderer:  renderer,
		languages: languages,
	}
}

// Routes registers the event log routes.
func (h *EventsHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
}

// List handles GET /admin/events with an optional ?level= filter.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	switch level {
	case model.EventLevelInfo, model.EventLevelWarning, model.EventLevelError:
	default:
		level = ""
	}

	total, err := h.queries.CountEvents(r.Context(), level)
	if err != nil {
		slog.Error("failed to count events", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	pagination := NewPagination(r, total, EventsPerPage)
	events, err := h.queries.ListEvents(r.Context(), store.ListEventsParams{
		Level:  level,
		Limit:  EventsPerPage,
		Offset: pagination.Offset(),
	})
	if err != nil {
		slog.Error("failed to list events", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	languages, err := h.languages.GetActive(r.Context())
	if err != nil {
		slog.Error("failed to load languages", "error", err)
	}

	data := map[string]any{
		"Events":      events,
		"Pagination":  pagination,
		"LevelFilter": level,
		"Levels":      []string{model.EventLevelInfo, model.EventLevelWarning, model.EventLevelError},
	}
	if err := h.renderer.Render(w, r, "admin/events", render.TemplateData{
		Title:     "Events",
		Data:      data,
		Languages: languages,
	}); err != nil {
		slog.Error("render error", "template", "admin/events", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
