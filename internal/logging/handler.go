// Package logging provides a slog handler that feeds the event log.
// Records at WARN level and above are persisted for auditing.
package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/Alban-i/manhaj-admin-sub002/internal/model"
	"github.com/Alban-i/manhaj-admin-sub002/internal/store"
)

// EventLogHandler wraps another slog.Handler and additionally writes WARN
// and ERROR records to the events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
}

// NewEventLogHandler creates an EventLogHandler forwarding WARN and above
// to the event log.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeToEventLog(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithAttrs(attrs), queries: h.queries, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithGroup(name), queries: h.queries, level: h.level}
}

func (h *EventLogHandler) writeToEventLog(r slog.Record) {
	createdAt := r.Time
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	// Background context: the event must be recorded even when the
	// request context is already cancelled.
	_, _ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     eventLevel(r.Level),
		Category:  extractCategory(r),
		Message:   r.Message,
		Metadata:  extractMetadata(r),
		CreatedAt: createdAt,
	})
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// extractCategory reads an explicit "category" attribute, falling back to
// a guess from the message.
func extractCategory(r slog.Record) string {
	var category string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false
		}
		return true
	})
	if category != "" {
		return category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "article") || strings.Contains(msg, "fatwa") ||
		strings.Contains(msg, "translation") || strings.Contains(msg, "content"):
		return model.EventCategoryContent
	case strings.Contains(msg, "image") || strings.Contains(msg, "upload"):
		return model.EventCategoryImage
	case strings.Contains(msg, "summary") || strings.Contains(msg, "openai") || strings.Contains(msg, "generation"):
		return model.EventCategoryAI
	default:
		return model.EventCategorySystem
	}
}

// extractMetadata flattens the record attributes into a JSON object.
func extractMetadata(r slog.Record) string {
	if r.NumAttrs() == 0 {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteString("{")
	first := true
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			return true
		}
		if !first {
			sb.WriteString(",")
		}
		first = false
		sb.WriteString(`"`)
		sb.WriteString(escapeJSON(a.Key))
		sb.WriteString(`":"`)
		sb.WriteString(escapeJSON(a.Value.String()))
		sb.WriteString(`"`)
		return true
	})
	sb.WriteString("}")
	return sb.String()
}

func escapeJSON(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
