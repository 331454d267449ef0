// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db        *sql.DB
	startedAt time.Time
	version   string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db *sql.DB, version string) *HealthHandler {
	return &HealthHandler{db: db, startedAt: time.Now(), version: version}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := h.pingDB(r); err != nil {
		slog.Error("health check database ping failed", "error", err)
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Live handles GET /health/live. It answers as long as the process runs.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Ready handles GET /health/ready. Readiness requires a reachable database.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.pingDB(r); err != nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

func (h *HealthHandler) pingDB(r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	return h.db.PingContext(ctx)
}
