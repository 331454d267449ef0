package model

import (
	"database/sql"
	"testing"
)

func TestResolveGroupMetadataPerFieldCoalesce(t *testing.T) {
	translation := Translation{
		Status:     sql.NullString{String: "Published", Valid: true},
		AuthorID:   sql.NullString{String: "legacy-author", Valid: true},
		CategoryID: sql.NullString{String: "legacy-category", Valid: true},
		ImageURL:   sql.NullString{String: "legacy.png", Valid: true},
	}
	group := &Group{
		AuthorID:   sql.NullString{String: "group-author", Valid: true},
		CategoryID: sql.NullString{}, // absent: legacy value must win
		ImageURL:   sql.NullString{}, // absent: legacy value must win
	}

	got := ResolveGroupMetadata(translation, group)

	if got.AuthorID != "group-author" {
		t.Errorf("AuthorID = %q, want centralized value", got.AuthorID)
	}
	if got.CategoryID != "legacy-category" {
		t.Errorf("CategoryID = %q, want legacy fallback", got.CategoryID)
	}
	if got.ImageURL != "legacy.png" {
		t.Errorf("ImageURL = %q, want legacy fallback", got.ImageURL)
	}
	if !got.IsPublished {
		t.Error("IsPublished should be derived case-insensitively from status")
	}
}

func TestResolveGroupMetadataNoGroup(t *testing.T) {
	translation := Translation{
		Status:       sql.NullString{String: StatusDraft, Valid: true},
		CategoryID:   sql.NullString{String: "cat-1", Valid: true},
		IndividualID: sql.NullString{String: "ind-1", Valid: true},
	}

	got := ResolveGroupMetadata(translation, nil)

	if got.CategoryID != "cat-1" || got.IndividualID != "ind-1" {
		t.Errorf("legacy fields should pass through, got %+v", got)
	}
	if got.IsPublished {
		t.Error("draft translation must not resolve as published")
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusDraft, StatusPublished, true},
		{StatusPublished, StatusDraft, true},
		{StatusDraft, StatusArchived, true},
		{StatusPublished, StatusArchived, false},
		{StatusArchived, StatusDraft, false},
		{StatusArchived, StatusPublished, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestSortSiblingsOriginalFirst(t *testing.T) {
	siblings := []Sibling{
		{ID: "a", Language: "en"},
		{ID: "b", Language: "fr"},
		{ID: "c", Language: "ar", IsOriginal: true},
		{ID: "d", Language: "ur"},
	}

	SortSiblings(siblings)

	if !siblings[0].IsOriginal {
		t.Fatalf("first sibling should be the original, got %+v", siblings[0])
	}
	// Non-originals keep their storage order.
	rest := []string{siblings[1].ID, siblings[2].ID, siblings[3].ID}
	want := []string{"a", "b", "d"}
	for i := range want {
		if rest[i] != want[i] {
			t.Errorf("rest[%d] = %s, want %s", i, rest[i], want[i])
		}
	}
}

func TestSortSiblingsNoOriginal(t *testing.T) {
	siblings := []Sibling{{ID: "a"}, {ID: "b"}}
	SortSiblings(siblings)
	if siblings[0].ID != "a" || siblings[1].ID != "b" {
		t.Error("order should be stable when no original exists")
	}
}

func TestApplySiblingDefaults(t *testing.T) {
	s := Sibling{ID: "x"}
	ApplySiblingDefaults(&s, "ar")
	if s.Language != "ar" {
		t.Errorf("Language = %q, want default code", s.Language)
	}
	if s.Status != StatusDraft {
		t.Errorf("Status = %q, want draft", s.Status)
	}

	s = Sibling{ID: "y", Language: "en", Status: StatusPublished}
	ApplySiblingDefaults(&s, "ar")
	if s.Language != "en" || s.Status != StatusPublished {
		t.Error("present values must not be overwritten by defaults")
	}
}

func TestKindByPlural(t *testing.T) {
	k, ok := KindByPlural("fatwas")
	if !ok || k.Name != "fatwa" {
		t.Errorf("KindByPlural(fatwas) = %+v, %v", k, ok)
	}
	if _, ok := KindByPlural("unknown"); ok {
		t.Error("unknown plural should not resolve")
	}
}

func TestKindHasTranslators(t *testing.T) {
	if !KindArticle.HasTranslators() || !KindFatwa.HasTranslators() {
		t.Error("articles and fatwas carry translator associations")
	}
	if KindTheme.HasTranslators() || KindTimeline.HasTranslators() || KindIndividual.HasTranslators() {
		t.Error("themes, timelines and individuals have no translator associations")
	}
}
