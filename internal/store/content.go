// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Alban-i/manhaj-admin-sub002/internal/model"
)

// ErrNotFound is returned when a single-row content lookup matches zero or
// more than one row. Callers treat both the same way: log and resolve to
// absence, never a user-visible failure distinct from "does not exist".
var ErrNotFound = errors.New("store: translation not found")

// ContentRow is one translation joined with its group row when the group
// exists. Group is nil for legacy rows that were never migrated.
type ContentRow struct {
	Translation model.Translation
	Group       *model.Group
}

// Metadata resolves the language-independent metadata of the row, with the
// per-field legacy fallback.
func (r ContentRow) Metadata() model.GroupMetadata {
	return model.ResolveGroupMetadata(r.Translation, r.Group)
}

const translationColumns = `t.id, t.group_id, t.language, t.slug, t.title, t.body, t.summary, t.hijri_date,
	t.status, t.is_original, t.author_id, t.category_id, t.individual_id, t.image_url, t.created_at, t.updated_at`

const groupJoinColumns = `g.id, g.author_id, g.category_id, g.individual_id, g.image_url, g.created_at, g.updated_at`

func scanContentRow(rows *sql.Rows) (ContentRow, error) {
	var (
		row       ContentRow
		t         = &row.Translation
		gID       sql.NullString
		gAuthor   sql.NullString
		gCategory sql.NullString
		gIndiv    sql.NullString
		gImage    sql.NullString
		gCreated  sql.NullTime
		gUpdated  sql.NullTime
	)
	err := rows.Scan(
		&t.ID, &t.GroupID, &t.Language, &t.Slug, &t.Title, &t.Body, &t.Summary, &t.HijriDate,
		&t.Status, &t.IsOriginal, &t.AuthorID, &t.CategoryID, &t.IndividualID, &t.ImageURL,
		&t.CreatedAt, &t.UpdatedAt,
		&gID, &gAuthor, &gCategory, &gIndiv, &gImage, &gCreated, &gUpdated,
	)
	if err != nil {
		return ContentRow{}, err
	}
	if gID.Valid {
		row.Group = &model.Group{
			ID:           gID.String,
			AuthorID:     gAuthor,
			CategoryID:   gCategory,
			IndividualID: gIndiv,
			ImageURL:     gImage,
			CreatedAt:    gCreated.Time,
			UpdatedAt:    gUpdated.Time,
		}
	}
	return row, nil
}

// FindTranslation resolves an identifier to a translation row. The
// identifier is classified exactly once: UUIDs look up by id, everything
// else by slug, and the "new" sentinel returns (nil, nil) without touching
// storage. Zero or ambiguous matches return ErrNotFound.
func (q *Queries) FindTranslation(ctx context.Context, kind model.Kind, identifier string) (*ContentRow, error) {
	var column string
	switch model.ClassifyIdentifier(identifier) {
	case model.IdentifierSentinel:
		return nil, nil
	case model.IdentifierUUID:
		column = "t.id"
	default:
		column = "t.slug"
	}

	// LIMIT 2 is enough to detect ambiguity without draining the table.
	query := fmt.Sprintf(
		`SELECT %s, %s FROM %s t LEFT JOIN %s g ON g.id = t.group_id WHERE %s = ? LIMIT 2`,
		translationColumns, groupJoinColumns, kind.Table, kind.GroupTable, column)

	rows, err := q.db.QueryContext(ctx, query, identifier)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []ContentRow
	for rows.Next() {
		row, err := scanContentRow(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 1:
		return &matches[0], nil
	case 0:
		return nil, fmt.Errorf("%w: %s %q", ErrNotFound, kind.Name, identifier)
	default:
		return nil, fmt.Errorf("%w: ambiguous %s identifier %q", ErrNotFound, kind.Name, identifier)
	}
}

// ListContentParams holds paging parameters for ListContent.
type ListContentParams struct {
	Status string // empty or "all" lists every status
	Limit  int64
	Offset int64
}

// ListContent returns a page of translations of one kind, newest first.
func (q *Queries) ListContent(ctx context.Context, kind model.Kind, arg ListContentParams) ([]ContentRow, error) {
	query := fmt.Sprintf(
		`SELECT %s, %s FROM %s t LEFT JOIN %s g ON g.id = t.group_id`,
		translationColumns, groupJoinColumns, kind.Table, kind.GroupTable)
	args := []any{}
	if arg.Status != "" && arg.Status != "all" {
		query += ` WHERE t.status = ?`
		args = append(args, arg.Status)
	}
	query += ` ORDER BY t.created_at DESC, t.id LIMIT ? OFFSET ?`
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ContentRow
	for rows.Next() {
		row, err := scanContentRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// CountContent counts translations of one kind, optionally by status.
func (q *Queries) CountContent(ctx context.Context, kind model.Kind, status string) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, kind.Table)
	args := []any{}
	if status != "" && status != "all" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	var count int64
	err := q.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// ListSiblings enumerates all language variants of a group, original first,
// then storage order. Boundary defaults for partially migrated rows are
// applied here, never written back.
func (q *Queries) ListSiblings(ctx context.Context, kind model.Kind, groupID, defaultLanguage string) ([]model.Sibling, error) {
	query := fmt.Sprintf(
		`SELECT id, title, slug, language, status, is_original FROM %s
		 WHERE group_id = ?
		 ORDER BY COALESCE(is_original, 1) DESC, created_at, id`, kind.Table)

	rows, err := q.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var siblings []model.Sibling
	for rows.Next() {
		var (
			s          model.Sibling
			language   sql.NullString
			status     sql.NullString
			isOriginal sql.NullBool
		)
		if err := rows.Scan(&s.ID, &s.Title, &s.Slug, &language, &status, &isOriginal); err != nil {
			return nil, err
		}
		s.Language = language.String
		s.Status = status.String
		// Missing is_original defaults to true for unmigrated rows.
		s.IsOriginal = !isOriginal.Valid || isOriginal.Bool
		model.ApplySiblingDefaults(&s, defaultLanguage)
		siblings = append(siblings, s)
	}
	return siblings, rows.Err()
}

// TranslationForLanguage returns the sibling id for one language of a group,
// or ErrNotFound when the group has no translation in that language.
func (q *Queries) TranslationForLanguage(ctx context.Context, kind model.Kind, groupID, language string) (string, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE group_id = ? AND language = ? LIMIT 1`, kind.Table)
	var id string
	err := q.db.QueryRowContext(ctx, query, groupID, language).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s group %s has no %s translation", ErrNotFound, kind.Name, groupID, language)
	}
	return id, err
}

// ContentSlugExists checks slug uniqueness within one language, optionally
// excluding a row (for updates).
func (q *Queries) ContentSlugExists(ctx context.Context, kind model.Kind, slug, language, excludeID string) (bool, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE slug = ? AND language = ? AND id != ?`, kind.Table)
	var count int64
	if err := q.db.QueryRowContext(ctx, query, slug, language, excludeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateGroupParams holds parameters for CreateGroup.
type CreateGroupParams struct {
	ID           string
	AuthorID     sql.NullString
	CategoryID   sql.NullString
	IndividualID sql.NullString
	ImageURL     sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateGroup inserts a centralized group row.
func (q *Queries) CreateGroup(ctx context.Context, kind model.Kind, arg CreateGroupParams) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (id, author_id, category_id, individual_id, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`, kind.GroupTable)
	_, err := q.db.ExecContext(ctx, query,
		arg.ID, arg.AuthorID, arg.CategoryID, arg.IndividualID, arg.ImageURL, arg.CreatedAt, arg.UpdatedAt)
	return err
}

// UpdateGroupParams holds parameters for UpdateGroup.
type UpdateGroupParams struct {
	ID           string
	AuthorID     sql.NullString
	CategoryID   sql.NullString
	IndividualID sql.NullString
	ImageURL     sql.NullString
	UpdatedAt    time.Time
}

// UpdateGroup updates the centralized metadata of a group.
func (q *Queries) UpdateGroup(ctx context.Context, kind model.Kind, arg UpdateGroupParams) error {
	query := fmt.Sprintf(
		`UPDATE %s SET author_id = ?, category_id = ?, individual_id = ?, image_url = ?, updated_at = ?
		 WHERE id = ?`, kind.GroupTable)
	_, err := q.db.ExecContext(ctx, query,
		arg.AuthorID, arg.CategoryID, arg.IndividualID, arg.ImageURL, arg.UpdatedAt, arg.ID)
	return err
}

// AttachGroup points an existing translation at a group row. Used when a
// legacy row gets its group created on first translate.
func (q *Queries) AttachGroup(ctx context.Context, kind model.Kind, translationID, groupID string) error {
	query := fmt.Sprintf(`UPDATE %s SET group_id = ? WHERE id = ?`, kind.Table)
	_, err := q.db.ExecContext(ctx, query, groupID, translationID)
	return err
}

// CreateTranslationParams holds parameters for CreateTranslation.
type CreateTranslationParams struct {
	ID         string
	GroupID    sql.NullString
	Language   string
	Slug       string
	Title      string
	Body       string
	Summary    string
	HijriDate  string
	Status     string
	IsOriginal bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateTranslation inserts a translation row. New rows never populate the
// legacy inline metadata columns; metadata lives on the group.
func (q *Queries) CreateTranslation(ctx context.Context, kind model.Kind, arg CreateTranslationParams) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (id, group_id, language, slug, title, body, summary, hijri_date, status, is_original, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, kind.Table)
	_, err := q.db.ExecContext(ctx, query,
		arg.ID, arg.GroupID, arg.Language, arg.Slug, arg.Title, arg.Body,
		arg.Summary, arg.HijriDate, arg.Status, arg.IsOriginal, arg.CreatedAt, arg.UpdatedAt)
	return err
}

// UpdateTranslationParams holds parameters for UpdateTranslation.
type UpdateTranslationParams struct {
	ID        string
	Slug      string
	Title     string
	Body      string
	Summary   string
	HijriDate string
	UpdatedAt time.Time
}

// UpdateTranslation updates the editable fields of a translation.
func (q *Queries) UpdateTranslation(ctx context.Context, kind model.Kind, arg UpdateTranslationParams) error {
	query := fmt.Sprintf(
		`UPDATE %s SET slug = ?, title = ?, body = ?, summary = ?, hijri_date = ?, updated_at = ?
		 WHERE id = ?`, kind.Table)
	_, err := q.db.ExecContext(ctx, query,
		arg.Slug, arg.Title, arg.Body, arg.Summary, arg.HijriDate, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateTranslationStatus sets the status of a translation.
func (q *Queries) UpdateTranslationStatus(ctx context.Context, kind model.Kind, id, status string, updatedAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET status = ?, updated_at = ? WHERE id = ?`, kind.Table)
	_, err := q.db.ExecContext(ctx, query, status, updatedAt, id)
	return err
}

// DeleteTranslation removes one translation row. The group row is left in
// place even when this was the last translation; orphaned groups are
// surfaced on the dashboard instead of cascade-deleted.
func (q *Queries) DeleteTranslation(ctx context.Context, kind model.Kind, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, kind.Table)
	_, err := q.db.ExecContext(ctx, query, id)
	return err
}

// CountSiblings counts the translations of a group.
func (q *Queries) CountSiblings(ctx context.Context, kind model.Kind, groupID string) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE group_id = ?`, kind.Table)
	var count int64
	err := q.db.QueryRowContext(ctx, query, groupID).Scan(&count)
	return count, err
}

// CountOrphanGroups counts groups that have no remaining translations.
func (q *Queries) CountOrphanGroups(ctx context.Context, kind model.Kind) (int64, error) {
	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM %s g WHERE NOT EXISTS (SELECT 1 FROM %s t WHERE t.group_id = g.id)`,
		kind.GroupTable, kind.Table)
	var count int64
	err := q.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}

func associationTables(kind model.Kind, assoc model.AssociationKind) (groupTable, legacyTable, refColumn string) {
	switch assoc {
	case model.AssociationTranslators:
		return kind.GroupTranslatorsTable, kind.LegacyTranslatorsTable, "individual_id"
	default:
		return kind.GroupTagsTable, kind.LegacyTagsTable, "tag_id"
	}
}

// ResolveAssociations returns the ordered reference ids of one association
// kind. The group scope is authoritative whenever the translation belongs
// to a group — even when it holds zero rows; only groupless legacy rows
// fall back to the per-translation scope. Ordering follows display_order
// ascending where present, storage order otherwise.
func (q *Queries) ResolveAssociations(ctx context.Context, kind model.Kind, row ContentRow, assoc model.AssociationKind) ([]string, error) {
	groupTable, legacyTable, refColumn := associationTables(kind, assoc)
	if groupTable == "" {
		return nil, nil
	}

	const ordering = ` ORDER BY CASE WHEN display_order IS NULL THEN 1 ELSE 0 END, display_order, rowid`

	var (
		query string
		arg   string
	)
	if row.Group != nil {
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE group_id = ?`+ordering, refColumn, groupTable)
		arg = row.Group.ID
	} else {
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE translation_id = ?`+ordering, refColumn, legacyTable)
		arg = row.Translation.ID
	}

	rows, err := q.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddAssociation links a reference id to a group. A duplicate insert is
// idempotent success: the desired end state already holds.
func (q *Queries) AddAssociation(ctx context.Context, kind model.Kind, assoc model.AssociationKind, groupID, refID string, displayOrder sql.NullInt64) error {
	groupTable, _, refColumn := associationTables(kind, assoc)
	if groupTable == "" {
		return fmt.Errorf("store: %s has no %s associations", kind.Name, assoc)
	}
	query := fmt.Sprintf(`INSERT INTO %s (group_id, %s, display_order) VALUES (?, ?, ?)`, groupTable, refColumn)
	_, err := q.db.ExecContext(ctx, query, groupID, refID, displayOrder)
	if IsUniqueViolation(err) {
		return nil
	}
	return err
}

// ClearAssociations removes all group-scoped associations of one kind.
func (q *Queries) ClearAssociations(ctx context.Context, kind model.Kind, assoc model.AssociationKind, groupID string) error {
	groupTable, _, _ := associationTables(kind, assoc)
	if groupTable == "" {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE group_id = ?`, groupTable)
	_, err := q.db.ExecContext(ctx, query, groupID)
	return err
}
