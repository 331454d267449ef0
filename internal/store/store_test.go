package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// testDB creates an in-memory SQLite database with the full schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("enabling foreign keys: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return db
}

func TestSeedCreatesDefaultLanguages(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := Seed(ctx, db, false); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	q := New(db)
	langs, err := q.ListLanguages(ctx)
	if err != nil {
		t.Fatalf("ListLanguages: %v", err)
	}
	if len(langs) != 3 {
		t.Fatalf("got %d languages, want 3", len(langs))
	}

	def, err := q.GetDefaultLanguage(ctx)
	if err != nil {
		t.Fatalf("GetDefaultLanguage: %v", err)
	}
	if def.Code != "ar" {
		t.Errorf("default language = %s, want ar", def.Code)
	}

	// Seeding twice must not duplicate.
	if err := Seed(ctx, db, false); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	count, _ := q.CountLanguages(ctx)
	if count != 3 {
		t.Errorf("after reseed got %d languages, want 3", count)
	}
}

func TestLanguageCRUD(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)
	now := time.Now()

	created, err := q.CreateLanguage(ctx, CreateLanguageParams{
		Code: "ur", Name: "Urdu", NativeName: "اردو", IsActive: true,
		Direction: "rtl", Position: 5, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateLanguage: %v", err)
	}
	if created.Code != "ur" || !created.IsActive {
		t.Errorf("created = %+v", created)
	}

	byCode, err := q.GetLanguageByCode(ctx, "ur")
	if err != nil {
		t.Fatalf("GetLanguageByCode: %v", err)
	}
	if byCode.ID != created.ID {
		t.Error("lookup by code returned a different row")
	}

	updated, err := q.UpdateLanguage(ctx, UpdateLanguageParams{
		ID: created.ID, Name: "Urdu", NativeName: "اردو", IsActive: false,
		Direction: "rtl", Position: 9, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("UpdateLanguage: %v", err)
	}
	if updated.IsActive || updated.Position != 9 {
		t.Errorf("updated = %+v", updated)
	}

	if err := q.SetDefaultLanguage(ctx, created.ID); err != nil {
		t.Fatalf("SetDefaultLanguage: %v", err)
	}
	def, err := q.GetDefaultLanguage(ctx)
	if err != nil {
		t.Fatalf("GetDefaultLanguage: %v", err)
	}
	if def.ID != created.ID {
		t.Error("default language was not switched")
	}
	if !def.IsActive {
		t.Error("setting default must reactivate the language")
	}

	// Default languages are protected from deletion.
	if err := q.DeleteLanguage(ctx, created.ID); err != nil {
		t.Fatalf("DeleteLanguage: %v", err)
	}
	if _, err := q.GetLanguageByID(ctx, created.ID); err != nil {
		t.Error("default language must survive delete attempts")
	}
}

func TestEventLogRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	old := time.Now().Add(-48 * time.Hour)
	if _, err := q.CreateEvent(ctx, CreateEventParams{
		Level: "warning", Category: "system", Message: "old entry", Metadata: "{}", CreatedAt: old,
	}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if _, err := q.CreateEvent(ctx, CreateEventParams{
		Level: "error", Category: "content", Message: "fresh entry", Metadata: "{}", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	events, err := q.ListEvents(ctx, ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Message != "fresh entry" {
		t.Error("events should list newest first")
	}

	filtered, err := q.ListEvents(ctx, ListEventsParams{Level: "error", Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Level != "error" {
		t.Errorf("filtered = %+v", filtered)
	}

	pruned, err := q.DeleteEventsBefore(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned %d rows, want 1", pruned)
	}

	count, _ := q.CountEvents(ctx, "")
	if count != 1 {
		t.Errorf("count after prune = %d, want 1", count)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)
	now := time.Now()

	if err := q.CreateTag(ctx, CreateTagParams{ID: "t1", Slug: "fiqh", Name: "Fiqh", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	err := q.CreateTag(ctx, CreateTagParams{ID: "t2", Slug: "fiqh", Name: "Fiqh", CreatedAt: now, UpdatedAt: now})
	if err == nil {
		t.Fatal("duplicate slug should fail")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}
	if IsUniqueViolation(nil) {
		t.Error("IsUniqueViolation(nil) = true")
	}
}
