// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/Alban-i/manhaj-admin-sub002/internal/model"
)

// CreateEventParams holds parameters for CreateEvent.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent appends an event log entry.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO events (level, category, message, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		arg.Level, arg.Category, arg.Message, arg.Metadata, arg.CreatedAt)
	if err != nil {
		return model.Event{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Event{}, err
	}
	return model.Event{
		ID: id, Level: arg.Level, Category: arg.Category,
		Message: arg.Message, Metadata: arg.Metadata, CreatedAt: arg.CreatedAt,
	}, nil
}

// ListEventsParams holds paging parameters for ListEvents.
type ListEventsParams struct {
	Level  string // empty or "all" lists every level
	Limit  int64
	Offset int64
}

// ListEvents returns a page of events, newest first.
func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]model.Event, error) {
	query := `SELECT id, level, category, message, metadata, created_at FROM events`
	args := []any{}
	if arg.Level != "" && arg.Level != "all" {
		query += ` WHERE level = ?`
		args = append(args, arg.Level)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountEvents counts events, optionally by level.
func (q *Queries) CountEvents(ctx context.Context, level string) (int64, error) {
	query := `SELECT COUNT(*) FROM events`
	args := []any{}
	if level != "" && level != "all" {
		query += ` WHERE level = ?`
		args = append(args, level)
	}
	var count int64
	err := q.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// DeleteEventsBefore prunes events older than the cutoff and returns the
// number of rows removed.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
