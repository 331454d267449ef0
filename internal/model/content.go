// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"strings"
	"time"
)

// Translation statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// ValidStatuses contains all valid translation statuses.
var ValidStatuses = []string{StatusDraft, StatusPublished, StatusArchived}

// IsValidStatus checks if a status is valid.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CanTransition reports whether a status transition is allowed.
// draft <-> published is revertible, draft -> archived is terminal.
// Transitions are editor actions only; nothing in this package schedules them.
func CanTransition(from, to string) bool {
	switch from {
	case StatusDraft:
		return to == StatusPublished || to == StatusArchived
	case StatusPublished:
		return to == StatusDraft
	default:
		return false
	}
}

// Kind describes one translatable content type and the tables backing it.
// The resolution logic is identical across kinds; only the table names vary.
type Kind struct {
	Name   string // singular, e.g. "article"
	Plural string // e.g. "articles", also the admin route segment

	Table      string // translations table
	GroupTable string // centralized group metadata table

	GroupTagsTable  string // group-scoped tag associations
	LegacyTagsTable string // legacy per-translation tag associations

	// Translator associations exist for kinds whose content is translated
	// from source material (articles, fatwas). Empty otherwise.
	GroupTranslatorsTable  string
	LegacyTranslatorsTable string
}

// HasTranslators reports whether the kind carries translator associations.
func (k Kind) HasTranslators() bool {
	return k.GroupTranslatorsTable != ""
}

// Content kinds. Table names are compile-time constants; nothing in the
// query layer accepts caller-supplied table or column names.
var (
	KindArticle = Kind{
		Name: "article", Plural: "articles",
		Table: "articles", GroupTable: "article_groups",
		GroupTagsTable: "article_group_tags", LegacyTagsTable: "article_tags",
		GroupTranslatorsTable: "article_group_translators", LegacyTranslatorsTable: "article_translators",
	}
	KindFatwa = Kind{
		Name: "fatwa", Plural: "fatwas",
		Table: "fatwas", GroupTable: "fatwa_groups",
		GroupTagsTable: "fatwa_group_tags", LegacyTagsTable: "fatwa_tags",
		GroupTranslatorsTable: "fatwa_group_translators", LegacyTranslatorsTable: "fatwa_translators",
	}
	KindIndividual = Kind{
		Name: "individual", Plural: "individuals",
		Table: "individuals", GroupTable: "individual_groups",
		GroupTagsTable: "individual_group_tags", LegacyTagsTable: "individual_tags",
	}
	KindTheme = Kind{
		Name: "theme", Plural: "themes",
		Table: "themes", GroupTable: "theme_groups",
		GroupTagsTable: "theme_group_tags", LegacyTagsTable: "theme_tags",
	}
	KindTimeline = Kind{
		Name: "timeline", Plural: "timelines",
		Table: "timelines", GroupTable: "timeline_groups",
		GroupTagsTable: "timeline_group_tags", LegacyTagsTable: "timeline_tags",
	}
)

// Kinds lists every content kind in admin menu order.
var Kinds = []Kind{KindArticle, KindFatwa, KindIndividual, KindTheme, KindTimeline}

// KindByPlural looks up a kind by its route segment.
func KindByPlural(plural string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Plural == plural {
			return k, true
		}
	}
	return Kind{}, false
}

// Translation is one language's rendering of a content item. The inline
// author/category/individual/image columns are the legacy pre-migration
// shape; resolution prefers the group row and falls back per field.
type Translation struct {
	ID         string
	GroupID    sql.NullString
	Language   sql.NullString
	Slug       string
	Title      string
	Body       string
	Summary    string
	HijriDate  string
	Status     sql.NullString
	IsOriginal sql.NullBool

	// Legacy inline metadata columns.
	AuthorID     sql.NullString
	CategoryID   sql.NullString
	IndividualID sql.NullString
	ImageURL     sql.NullString

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Group is the centralized language-independent metadata of a content item.
type Group struct {
	ID           string
	AuthorID     sql.NullString
	CategoryID   sql.NullString
	IndividualID sql.NullString
	ImageURL     sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GroupMetadata is the resolved, language-independent view of a content
// item. IsPublished is derived, never stored.
type GroupMetadata struct {
	AuthorID     string
	CategoryID   string
	IndividualID string
	ImageURL     string
	IsPublished  bool
}

// ResolveGroupMetadata coalesces centralized group fields with the legacy
// inline columns of a translation. The coalesce is per field: a group may
// carry the category while the image still lives on the translation row.
func ResolveGroupMetadata(t Translation, g *Group) GroupMetadata {
	m := GroupMetadata{
		AuthorID:     t.AuthorID.String,
		CategoryID:   t.CategoryID.String,
		IndividualID: t.IndividualID.String,
		ImageURL:     t.ImageURL.String,
		IsPublished:  strings.EqualFold(t.Status.String, StatusPublished),
	}
	if g == nil {
		return m
	}
	if g.AuthorID.Valid {
		m.AuthorID = g.AuthorID.String
	}
	if g.CategoryID.Valid {
		m.CategoryID = g.CategoryID.String
	}
	if g.IndividualID.Valid {
		m.IndividualID = g.IndividualID.String
	}
	if g.ImageURL.Valid {
		m.ImageURL = g.ImageURL.String
	}
	return m
}

// Sibling is one language variant of a group, as listed by the sibling
// enumerator.
type Sibling struct {
	ID         string
	Title      string
	Slug       string
	Language   string
	IsOriginal bool
	Status     string
}

// ApplySiblingDefaults fills the boundary defaults that tolerate partially
// migrated legacy rows: missing language becomes the platform default,
// missing status becomes draft, missing is_original becomes true. Defaults
// are applied at read time, never written back.
func ApplySiblingDefaults(s *Sibling, defaultLanguage string) {
	if s.Language == "" {
		s.Language = defaultLanguage
	}
	if s.Status == "" {
		s.Status = StatusDraft
	}
}

// SortSiblings orders siblings with the original-language row first,
// preserving the incoming (storage) order otherwise.
func SortSiblings(siblings []Sibling) {
	// Stable partition: originals keep their relative order, as do the rest.
	ordered := make([]Sibling, 0, len(siblings))
	for _, s := range siblings {
		if s.IsOriginal {
			ordered = append(ordered, s)
		}
	}
	for _, s := range siblings {
		if !s.IsOriginal {
			ordered = append(ordered, s)
		}
	}
	copy(siblings, ordered)
}

// AssociationKind selects which many-to-many association to resolve.
type AssociationKind string

const (
	AssociationTags        AssociationKind = "tags"
	AssociationTranslators AssociationKind = "translators"
)
