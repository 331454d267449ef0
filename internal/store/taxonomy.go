// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyBatch is returned when a name-translation upsert reduces to zero
// valid entries after blank filtering. Nothing is written in that case.
var ErrEmptyBatch = errors.New("store: translation batch has no valid entries")

// Tag mirrors one row of the tags table. Name is the default-language name;
// per-language names live in tag_translations.
type Tag struct {
	ID        string
	Slug      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category mirrors one row of the categories table.
type Category struct {
	ID        string
	Slug      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Author mirrors one row of the authors table.
type Author struct {
	ID        string
	Name      string
	Slug      string
	Bio       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NameTranslation is one per-language name of a tag or category.
type NameTranslation struct {
	Language string
	Name     string
}

// ListTags returns all tags ordered by name.
func (q *Queries) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, slug, name, created_at, updated_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetTagByID returns one tag.
func (q *Queries) GetTagByID(ctx context.Context, id string) (Tag, error) {
	var t Tag
	err := q.db.QueryRowContext(ctx,
		`SELECT id, slug, name, created_at, updated_at FROM tags WHERE id = ?`, id).
		Scan(&t.ID, &t.Slug, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// TagSlugExists checks tag slug uniqueness.
func (q *Queries) TagSlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags WHERE slug = ?`, slug).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateTagParams holds parameters for CreateTag.
type CreateTagParams struct {
	ID        string
	Slug      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateTag inserts a tag.
func (q *Queries) CreateTag(ctx context.Context, arg CreateTagParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO tags (id, slug, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		arg.ID, arg.Slug, arg.Name, arg.CreatedAt, arg.UpdatedAt)
	return err
}

// UpdateTag updates a tag's slug and default-language name.
func (q *Queries) UpdateTag(ctx context.Context, id, slug, name string, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE tags SET slug = ?, name = ?, updated_at = ? WHERE id = ?`,
		slug, name, updatedAt, id)
	return err
}

// DeleteTag removes a tag; associations cascade via foreign keys.
func (q *Queries) DeleteTag(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	return err
}

// ListTagTranslations returns the per-language names of a tag.
func (q *Queries) ListTagTranslations(ctx context.Context, tagID string) ([]NameTranslation, error) {
	return q.listNameTranslations(ctx, "tag_translations", "tag_id", tagID)
}

// UpsertTagTranslations writes a batch of per-language tag names. Blank
// names are filtered out first; a batch that reduces to zero valid entries
// is rejected before any write happens.
func (q *Queries) UpsertTagTranslations(ctx context.Context, tagID string, entries []NameTranslation) error {
	return q.upsertNameTranslations(ctx, "tag_translations", "tag_id", tagID, entries)
}

// ListCategories returns all categories ordered by name.
func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, slug, name, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategoryByID returns one category.
func (q *Queries) GetCategoryByID(ctx context.Context, id string) (Category, error) {
	var c Category
	err := q.db.QueryRowContext(ctx,
		`SELECT id, slug, name, created_at, updated_at FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Slug, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CategorySlugExists checks category slug uniqueness.
func (q *Queries) CategorySlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE slug = ?`, slug).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateCategoryParams holds parameters for CreateCategory.
type CreateCategoryParams struct {
	ID        string
	Slug      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateCategory inserts a category.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO categories (id, slug, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		arg.ID, arg.Slug, arg.Name, arg.CreatedAt, arg.UpdatedAt)
	return err
}

// UpdateCategory updates a category's slug and default-language name.
func (q *Queries) UpdateCategory(ctx context.Context, id, slug, name string, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE categories SET slug = ?, name = ?, updated_at = ? WHERE id = ?`,
		slug, name, updatedAt, id)
	return err
}

// DeleteCategory removes a category.
func (q *Queries) DeleteCategory(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	return err
}

// ListCategoryTranslations returns the per-language names of a category.
func (q *Queries) ListCategoryTranslations(ctx context.Context, categoryID string) ([]NameTranslation, error) {
	return q.listNameTranslations(ctx, "category_translations", "category_id", categoryID)
}

// UpsertCategoryTranslations writes a batch of per-language category names
// with the same blank-filtering contract as UpsertTagTranslations.
func (q *Queries) UpsertCategoryTranslations(ctx context.Context, categoryID string, entries []NameTranslation) error {
	return q.upsertNameTranslations(ctx, "category_translations", "category_id", categoryID, entries)
}

func (q *Queries) listNameTranslations(ctx context.Context, table, fkColumn, id string) ([]NameTranslation, error) {
	query := fmt.Sprintf(`SELECT language, name FROM %s WHERE %s = ? ORDER BY language`, table, fkColumn)
	rows, err := q.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []NameTranslation
	for rows.Next() {
		var e NameTranslation
		if err := rows.Scan(&e.Language, &e.Name); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (q *Queries) upsertNameTranslations(ctx context.Context, table, fkColumn, id string, entries []NameTranslation) error {
	valid := entries[:0:0]
	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			continue
		}
		valid = append(valid, e)
	}
	if len(valid) == 0 {
		return ErrEmptyBatch
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (%s, language, name) VALUES (?, ?, ?)
		 ON CONFLICT(%s, language) DO UPDATE SET name = excluded.name`,
		table, fkColumn, fkColumn)
	for _, e := range valid {
		if _, err := q.db.ExecContext(ctx, query, id, e.Language, strings.TrimSpace(e.Name)); err != nil {
			return err
		}
	}
	return nil
}

// ListAuthors returns all authors ordered by name.
func (q *Queries) ListAuthors(ctx context.Context) ([]Author, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, slug, bio, created_at, updated_at FROM authors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []Author
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Slug, &a.Bio, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// GetAuthorByID returns one author.
func (q *Queries) GetAuthorByID(ctx context.Context, id string) (Author, error) {
	var a Author
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, slug, bio, created_at, updated_at FROM authors WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Slug, &a.Bio, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// CreateAuthorParams holds parameters for CreateAuthor.
type CreateAuthorParams struct {
	ID        string
	Name      string
	Slug      string
	Bio       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateAuthor inserts an author.
func (q *Queries) CreateAuthor(ctx context.Context, arg CreateAuthorParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO authors (id, name, slug, bio, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.Name, arg.Slug, arg.Bio, arg.CreatedAt, arg.UpdatedAt)
	return err
}

// UpdateAuthor updates an author.
func (q *Queries) UpdateAuthor(ctx context.Context, id, name, slug, bio string, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE authors SET name = ?, slug = ?, bio = ?, updated_at = ? WHERE id = ?`,
		name, slug, bio, updatedAt, id)
	return err
}

// DeleteAuthor removes an author.
func (q *Queries) DeleteAuthor(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM authors WHERE id = ?`, id)
	return err
}
