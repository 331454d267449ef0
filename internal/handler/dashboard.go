// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/Alban-i/manhaj-admin-sub002/internal/cache"
	"github.com/Alban-i/manhaj-admin-sub002/internal/model"
	"github.com/Alban-i/manhaj-admin-sub002/internal/render"
	"github.com/Alban-i/manhaj-admin-sub002/internal/store"
)

// DashboardHandler renders the admin landing page.
type DashboardHandler struct {
	queries   *store.Queries
	renderer  *render.Renderer
	languages *cache.LanguageCache
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(db *sql.DB, renderer *render.Renderer, languages *cache.LanguageCache) *DashboardHandler {
	return &DashboardHandler{
		queries:   store.New(db),
		renderer:  renderer,
		languages: languages,
	}
}

// KindStats holds per-kind counts for the dashboard.
type KindStats struct {
	Kind         model.Kind
	Total        int64
	Published    int64
	OrphanGroups int64 // groups whose translations were all deleted
}

// Dashboard handles GET /admin.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats := make([]KindStats, 0, len(model.Kinds))
	for _, kind := range model.Kinds {
		s := KindStats{Kind: kind}
		var err error
		if s.Total, err = h.queries.CountContent(r.Context(), kind, ""); err != nil {
			slog.Error("failed to count content", "kind", kind.Name, "error", err)
		}
		if s.Published, err = h.queries.CountContent(r.Context(), kind, model.StatusPublished); err != nil {
			slog.Error("failed to count published content", "kind", kind.Name, "error", err)
		}
		if s.OrphanGroups, err = h.queries.CountOrphanGroups(r.Context(), kind); err != nil {
			slog.Error("failed to count orphan groups", "kind", kind.Name, "error", err)
		}
		stats = append(stats, s)
	}

	events, err := h.queries.ListEvents(r.Context(), store.ListEventsParams{Limit: 10})
	if err != nil {
		slog.Error("failed to list recent events", "error", err)
	}

	languages, err := h.languages.GetActive(r.Context())
	if err != nil {
		slog.Error("failed to load languages", "error", err)
	}

	data := map[string]any{
		"Stats":        stats,
		"RecentEvents": events,
	}
	if err := h.renderer.Render(w, r, "admin/dashboard", render.TemplateData{
		Title:     "Dashboard",
		Data:      data,
		Languages: languages,
	}); err != nil {
		slog.Error("render error", "template", "admin/dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
