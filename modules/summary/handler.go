// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package summary

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Alban-i/manhaj-admin-sub002/internal/model"
)

// maxRequestBytes bounds the article body accepted by the endpoint.
const maxRequestBytes = 1 << 20

type summaryRequest struct {
	Content string `json:"content"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleSummarize handles POST /admin/api/summary.
func (m *Module) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if m.summarizer == nil {
		// Missing credential fails closed. The response does not hint at
		// the configuration state.
		m.ctx.Logger.Error("summary requested without configured credential")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "summary generation failed"})
		return
	}

	var req summaryRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "content is required"})
		return
	}

	cacheKey := summaryCacheKey(content)
	if m.ctx.Cache != nil {
		if cached, err := m.ctx.Cache.Get(r.Context(), cacheKey); err == nil {
			writeJSON(w, http.StatusOK, summaryResponse{Summary: string(cached)})
			return
		}
	}

	summary, err := m.summarizer.Summarize(r.Context(), content)
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			// Propagate the upstream status with a generic message; the
			// provider body stays out of the response.
			m.ctx.Logger.Error("summary provider error", "status", upstream.Status)
			writeJSON(w, upstream.Status, errorResponse{Error: "summary generation failed"})
			return
		}
		m.ctx.Logger.Error("summary generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "summary generation failed"})
		return
	}

	if m.ctx.Cache != nil {
		_ = m.ctx.Cache.Set(r.Context(), cacheKey, []byte(summary), 0)
	}

	_ = m.ctx.Events.LogAIEvent(r.Context(), model.EventLevelInfo, "summary generated",
		map[string]any{"content_bytes": len(content)})

	writeJSON(w, http.StatusOK, summaryResponse{Summary: summary})
}

// summaryCacheKey keys cached summaries by body content so repeated clicks
// on an unchanged body do not hit the provider again.
func summaryCacheKey(content string) string {
	sum := sha256.Sum256([]byte(content))
	return "summary:" + hex.EncodeToString(sum[:])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
