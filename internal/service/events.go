// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the business-logic layer: audit event logging
// and the scheduled maintenance jobs around it.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Alban-i/manhaj-admin-sub002/internal/model"
	"github.com/Alban-i/manhaj-admin-sub002/internal/store"
)

// EventService writes audit events and prunes old ones.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates an EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// LogEvent creates an event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		Metadata:  metadataJSON,
		CreatedAt: time.Now(),
	})
	return err
}

// LogContentEvent logs a content-related event.
func (s *EventService) LogContentEvent(ctx context.Context, level, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryContent, message, metadata)
}

// LogAIEvent logs an AI-related event.
func (s *EventService) LogAIEvent(ctx context.Context, level, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAI, message, metadata)
}

// LogImageEvent logs an image-related event.
func (s *EventService) LogImageEvent(ctx context.Context, level, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryImage, message, metadata)
}

// LogSystemEvent logs a system-related event.
func (s *EventService) LogSystemEvent(ctx context.Context, level, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategorySystem, message, metadata)
}

// DeleteOldEvents removes events older than the given duration and returns
// the number of rows pruned.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.queries.DeleteEventsBefore(ctx, time.Now().Add(-olderThan))
}
