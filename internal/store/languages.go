// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// Language mirrors one row of the languages table.
type Language struct {
	ID         int64
	Code       string
	Name       string
	NativeName string
	IsDefault  bool
	IsActive   bool
	Direction  string
	Position   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const languageColumns = `id, code, name, native_name, is_default, is_active, direction, position, created_at, updated_at`

func scanLanguage(row interface{ Scan(...any) error }) (Language, error) {
	var l Language
	err := row.Scan(&l.ID, &l.Code, &l.Name, &l.NativeName, &l.IsDefault,
		&l.IsActive, &l.Direction, &l.Position, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// ListLanguages returns all languages ordered by position.
func (q *Queries) ListLanguages(ctx context.Context) ([]Language, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+languageColumns+` FROM languages ORDER BY position, code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var languages []Language
	for rows.Next() {
		l, err := scanLanguage(rows)
		if err != nil {
			return nil, err
		}
		languages = append(languages, l)
	}
	return languages, rows.Err()
}

// ListActiveLanguages returns active languages ordered by position.
func (q *Queries) ListActiveLanguages(ctx context.Context) ([]Language, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+languageColumns+` FROM languages WHERE is_active = 1 ORDER BY position, code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var languages []Language
	for rows.Next() {
		l, err := scanLanguage(rows)
		if err != nil {
			return nil, err
		}
		languages = append(languages, l)
	}
	return languages, rows.Err()
}

// CountLanguages returns the total number of languages.
func (q *Queries) CountLanguages(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM languages`).Scan(&count)
	return count, err
}

// GetLanguageByID returns one language by id.
func (q *Queries) GetLanguageByID(ctx context.Context, id int64) (Language, error) {
	return scanLanguage(q.db.QueryRowContext(ctx,
		`SELECT `+languageColumns+` FROM languages WHERE id = ?`, id))
}

// GetLanguageByCode returns one language by ISO code.
func (q *Queries) GetLanguageByCode(ctx context.Context, code string) (Language, error) {
	return scanLanguage(q.db.QueryRowContext(ctx,
		`SELECT `+languageColumns+` FROM languages WHERE code = ?`, code))
}

// GetDefaultLanguage returns the default language row.
func (q *Queries) GetDefaultLanguage(ctx context.Context) (Language, error) {
	return scanLanguage(q.db.QueryRowContext(ctx,
		`SELECT `+languageColumns+` FROM languages WHERE is_default = 1 LIMIT 1`))
}

// CreateLanguageParams holds parameters for CreateLanguage.
type CreateLanguageParams struct {
	Code       string
	Name       string
	NativeName string
	IsDefault  bool
	IsActive   bool
	Direction  string
	Position   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateLanguage inserts a language and returns the created row.
func (q *Queries) CreateLanguage(ctx context.Context, arg CreateLanguageParams) (Language, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO languages (code, name, native_name, is_default, is_active, direction, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Code, arg.Name, arg.NativeName, arg.IsDefault, arg.IsActive,
		arg.Direction, arg.Position, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return Language{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Language{}, err
	}
	return q.GetLanguageByID(ctx, id)
}

// UpdateLanguageParams holds parameters for UpdateLanguage.
type UpdateLanguageParams struct {
	ID         int64
	Name       string
	NativeName string
	IsActive   bool
	Direction  string
	Position   int64
	UpdatedAt  time.Time
}

// UpdateLanguage updates mutable language fields.
func (q *Queries) UpdateLanguage(ctx context.Context, arg UpdateLanguageParams) (Language, error) {
	_, err := q.db.ExecContext(ctx,
		`UPDATE languages SET name = ?, native_name = ?, is_active = ?, direction = ?, position = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Name, arg.NativeName, arg.IsActive, arg.Direction, arg.Position, arg.UpdatedAt, arg.ID)
	if err != nil {
		return Language{}, err
	}
	return q.GetLanguageByID(ctx, arg.ID)
}

// SetDefaultLanguage makes one language the default, clearing all others.
func (q *Queries) SetDefaultLanguage(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, `UPDATE languages SET is_default = 0 WHERE is_default = 1`); err != nil {
		return err
	}
	_, err := q.db.ExecContext(ctx, `UPDATE languages SET is_default = 1, is_active = 1 WHERE id = ?`, id)
	return err
}

// DeleteLanguage removes a language. The default language cannot be deleted.
func (q *Queries) DeleteLanguage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM languages WHERE id = ? AND is_default = 0`, id)
	return err
}
