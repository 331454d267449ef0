// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategorySystem  = "system"
	EventCategoryContent = "content"
	EventCategoryImage   = "image"
	EventCategoryAI      = "ai"
)

// Event is one event log entry, written by the slog bridge or directly by
// handlers for audit-worthy actions.
type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata"` // JSON object
	CreatedAt time.Time `json:"created_at"`
}
