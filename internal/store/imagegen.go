// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ImagePreset mirrors one row of the image_presets table.
type ImagePreset struct {
	ID          string
	Name        string
	Description string
	StylePrompt string
	Size        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ImageProject mirrors one row of the image_projects table.
// SelectedGenerationID is a denormalized pointer kept consistent with the
// is_selected flags by SelectGeneration.
type ImageProject struct {
	ID                   string
	Name                 string
	PresetID             sql.NullString
	SelectedGenerationID sql.NullString
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ImageGeneration mirrors one row of the image_generations table.
type ImageGeneration struct {
	ID         string
	ProjectID  string
	Prompt     string
	ImagePath  string
	ThumbPath  string
	IsSelected bool
	CreatedAt  time.Time
}

// ListImagePresets returns all presets ordered by name.
func (q *Queries) ListImagePresets(ctx context.Context) ([]ImagePreset, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, description, style_prompt, size, created_at, updated_at FROM image_presets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []ImagePreset
	for rows.Next() {
		var p ImagePreset
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.StylePrompt, &p.Size, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

// GetImagePresetByID returns one preset.
func (q *Queries) GetImagePresetByID(ctx context.Context, id string) (ImagePreset, error) {
	var p ImagePreset
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, description, style_prompt, size, created_at, updated_at FROM image_presets WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.StylePrompt, &p.Size, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateImagePresetParams holds parameters for CreateImagePreset.
type CreateImagePresetParams struct {
	ID          string
	Name        string
	Description string
	StylePrompt string
	Size        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateImagePreset inserts a preset.
func (q *Queries) CreateImagePreset(ctx context.Context, arg CreateImagePresetParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO image_presets (id, name, description, style_prompt, size, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.Name, arg.Description, arg.StylePrompt, arg.Size, arg.CreatedAt, arg.UpdatedAt)
	return err
}

// UpdateImagePresetParams holds parameters for UpdateImagePreset.
type UpdateImagePresetParams struct {
	ID          string
	Name        string
	Description string
	StylePrompt string
	Size        string
	UpdatedAt   time.Time
}

// UpdateImagePreset updates a preset.
func (q *Queries) UpdateImagePreset(ctx context.Context, arg UpdateImagePresetParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE image_presets SET name = ?, description = ?, style_prompt = ?, size = ?, updated_at = ? WHERE id = ?`,
		arg.Name, arg.Description, arg.StylePrompt, arg.Size, arg.UpdatedAt, arg.ID)
	return err
}

// DeleteImagePreset removes a preset; projects keep running with a NULL preset.
func (q *Queries) DeleteImagePreset(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM image_presets WHERE id = ?`, id)
	return err
}

// ListImageProjects returns all projects, newest first.
func (q *Queries) ListImageProjects(ctx context.Context) ([]ImageProject, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, preset_id, selected_generation_id, created_at, updated_at
		 FROM image_projects ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []ImageProject
	for rows.Next() {
		var p ImageProject
		if err := rows.Scan(&p.ID, &p.Name, &p.PresetID, &p.SelectedGenerationID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetImageProjectByID returns one project.
func (q *Queries) GetImageProjectByID(ctx context.Context, id string) (ImageProject, error) {
	var p ImageProject
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, preset_id, selected_generation_id, created_at, updated_at FROM image_projects WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.PresetID, &p.SelectedGenerationID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateImageProjectParams holds parameters for CreateImageProject.
type CreateImageProjectParams struct {
	ID        string
	Name      string
	PresetID  sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateImageProject inserts a project.
func (q *Queries) CreateImageProject(ctx context.Context, arg CreateImageProjectParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO image_projects (id, name, preset_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		arg.ID, arg.Name, arg.PresetID, arg.CreatedAt, arg.UpdatedAt)
	return err
}

// UpdateImageProject updates a project's name and preset.
func (q *Queries) UpdateImageProject(ctx context.Context, id, name string, presetID sql.NullString, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE image_projects SET name = ?, preset_id = ?, updated_at = ? WHERE id = ?`,
		name, presetID, updatedAt, id)
	return err
}

// DeleteImageProject removes a project; generations cascade.
func (q *Queries) DeleteImageProject(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM image_projects WHERE id = ?`, id)
	return err
}

// ListGenerations returns a project's generations, newest first.
func (q *Queries) ListGenerations(ctx context.Context, projectID string) ([]ImageGeneration, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, project_id, prompt, image_path, thumb_path, is_selected, created_at
		 FROM image_generations WHERE project_id = ? ORDER BY created_at DESC, id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var generations []ImageGeneration
	for rows.Next() {
		var g ImageGeneration
		if err := rows.Scan(&g.ID, &g.ProjectID, &g.Prompt, &g.ImagePath, &g.ThumbPath, &g.IsSelected, &g.CreatedAt); err != nil {
			return nil, err
		}
		generations = append(generations, g)
	}
	return generations, rows.Err()
}

// GetGenerationByID returns one generation.
func (q *Queries) GetGenerationByID(ctx context.Context, id string) (ImageGeneration, error) {
	var g ImageGeneration
	err := q.db.QueryRowContext(ctx,
		`SELECT id, project_id, prompt, image_path, thumb_path, is_selected, created_at
		 FROM image_generations WHERE id = ?`, id).
		Scan(&g.ID, &g.ProjectID, &g.Prompt, &g.ImagePath, &g.ThumbPath, &g.IsSelected, &g.CreatedAt)
	return g, err
}

// CreateImageGenerationParams holds parameters for CreateImageGeneration.
type CreateImageGenerationParams struct {
	ID        string
	ProjectID string
	Prompt    string
	ImagePath string
	ThumbPath string
	CreatedAt time.Time
}

// CreateImageGeneration inserts a generation result.
func (q *Queries) CreateImageGeneration(ctx context.Context, arg CreateImageGenerationParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO image_generations (id, project_id, prompt, image_path, thumb_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.ProjectID, arg.Prompt, arg.ImagePath, arg.ThumbPath, arg.CreatedAt)
	return err
}

// SelectGeneration marks one generation as the project's selected output.
// The unselect-all, select-one and pointer update run in a single
// transaction so a failure cannot leave the flags and the denormalized
// pointer disagreeing.
func SelectGeneration(ctx context.Context, db *sql.DB, projectID, generationID string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin select generation: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE image_generations SET is_selected = 0 WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("unselect generations: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE image_generations SET is_selected = 1 WHERE id = ? AND project_id = ?`,
		generationID, projectID)
	if err != nil {
		return fmt.Errorf("select generation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("generation %s does not belong to project %s", generationID, projectID)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE image_projects SET selected_generation_id = ?, updated_at = ? WHERE id = ?`,
		generationID, time.Now(), projectID); err != nil {
		return fmt.Errorf("update project pointer: %w", err)
	}

	return tx.Commit()
}
