// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store is the typed query layer over the SQLite database. Queries
// are grouped per concern; the content queries are parameterized by
// model.Kind so the five content types share one implementation. Table
// names only ever come from the compile-time Kind definitions.
package store

import (
	"context"
	"database/sql"
	"strings"
)

// DBTX is the subset of *sql.DB / *sql.Tx the query layer needs.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries provides typed access to the database.
type Queries struct {
	db DBTX
}

// New creates a Queries instance backed by the given database or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance scoped to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Both SQLite drivers in use (modernc.org/sqlite and mattn/go-sqlite3)
// surface the violation in the error text; matching the message keeps the
// check driver-independent.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
