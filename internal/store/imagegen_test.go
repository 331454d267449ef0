package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"
)

func seedImageProject(t *testing.T, db *sql.DB) *Queries {
	t.Helper()
	ctx := context.Background()
	q := New(db)
	now := time.Now()

	err := q.CreateImagePreset(ctx, CreateImagePresetParams{
		ID: "preset-1", Name: "Manuscript", StylePrompt: "aged paper, arabic calligraphy",
		Size: "1024x1024", CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateImagePreset: %v", err)
	}

	err = q.CreateImageProject(ctx, CreateImageProjectParams{
		ID: "proj-1", Name: "Ramadan cover",
		PresetID:  sql.NullString{String: "preset-1", Valid: true},
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateImageProject: %v", err)
	}

	for i, id := range []string{"gen-1", "gen-2"} {
		err := q.CreateImageGeneration(ctx, CreateImageGenerationParams{
			ID: id, ProjectID: "proj-1", Prompt: "crescent over minaret",
			ImagePath: id + ".png", ThumbPath: id + "_thumb.png",
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("CreateImageGeneration %s: %v", id, err)
		}
	}
	return q
}

func TestSelectGeneration(t *testing.T) {
	db := testDB(t)
	q := seedImageProject(t, db)
	ctx := context.Background()

	if err := SelectGeneration(ctx, db, "proj-1", "gen-1"); err != nil {
		t.Fatalf("SelectGeneration: %v", err)
	}
	// Re-selecting moves the flag and the pointer together.
	if err := SelectGeneration(ctx, db, "proj-1", "gen-2"); err != nil {
		t.Fatalf("SelectGeneration gen-2: %v", err)
	}

	generations, err := q.ListGenerations(ctx, "proj-1")
	if err != nil {
		t.Fatalf("ListGenerations: %v", err)
	}
	selected := 0
	for _, g := range generations {
		if g.IsSelected {
			selected++
			if g.ID != "gen-2" {
				t.Errorf("selected generation = %s, want gen-2", g.ID)
			}
		}
	}
	if selected != 1 {
		t.Errorf("got %d selected generations, want exactly 1", selected)
	}

	project, err := q.GetImageProjectByID(ctx, "proj-1")
	if err != nil {
		t.Fatalf("GetImageProjectByID: %v", err)
	}
	if !project.SelectedGenerationID.Valid || project.SelectedGenerationID.String != "gen-2" {
		t.Errorf("project pointer = %+v, want gen-2", project.SelectedGenerationID)
	}
}

func TestSelectGenerationWrongProject(t *testing.T) {
	db := testDB(t)
	q := seedImageProject(t, db)
	ctx := context.Background()
	now := time.Now()

	if err := q.CreateImageProject(ctx, CreateImageProjectParams{
		ID: "proj-2", Name: "Other", CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateImageProject: %v", err)
	}
	if err := SelectGeneration(ctx, db, "proj-1", "gen-1"); err != nil {
		t.Fatalf("SelectGeneration: %v", err)
	}

	err := SelectGeneration(ctx, db, "proj-2", "gen-1")
	if err == nil || !strings.Contains(err.Error(), "does not belong") {
		t.Fatalf("cross-project select err = %v", err)
	}

	// The failed transaction must not have disturbed proj-1's selection.
	project, _ := q.GetImageProjectByID(ctx, "proj-1")
	if !project.SelectedGenerationID.Valid || project.SelectedGenerationID.String != "gen-1" {
		t.Errorf("proj-1 pointer after failed select = %+v", project.SelectedGenerationID)
	}
	g, _ := q.GetGenerationByID(ctx, "gen-1")
	if !g.IsSelected {
		t.Error("gen-1 should remain selected after failed cross-project select")
	}
}

func TestDeleteImagePresetKeepsProjects(t *testing.T) {
	db := testDB(t)
	q := seedImageProject(t, db)
	ctx := context.Background()

	if err := q.DeleteImagePreset(ctx, "preset-1"); err != nil {
		t.Fatalf("DeleteImagePreset: %v", err)
	}
	project, err := q.GetImageProjectByID(ctx, "proj-1")
	if err != nil {
		t.Fatalf("GetImageProjectByID: %v", err)
	}
	if project.PresetID.Valid {
		t.Errorf("project preset should be NULL after preset delete, got %+v", project.PresetID)
	}
}

func TestDeleteImageProjectCascades(t *testing.T) {
	db := testDB(t)
	q := seedImageProject(t, db)
	ctx := context.Background()

	if err := q.DeleteImageProject(ctx, "proj-1"); err != nil {
		t.Fatalf("DeleteImageProject: %v", err)
	}
	generations, err := q.ListGenerations(ctx, "proj-1")
	if err != nil {
		t.Fatalf("ListGenerations: %v", err)
	}
	if len(generations) != 0 {
		t.Errorf("got %d generations after project delete, want 0", len(generations))
	}
}
