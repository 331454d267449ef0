// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package imagegen

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Alban-i/manhaj-admin-sub002/internal/model"
	"github.com/Alban-i/manhaj-admin-sub002/internal/render"
	"github.com/Alban-i/manhaj-admin-sub002/internal/store"
)

const defaultImageSize = "1024x1024"

// maxUploadBytes bounds reference image uploads (10 MB).
const maxUploadBytes = 10 << 20

// handleProjects handles GET /admin/image-studio.
func (m *Module) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := m.ctx.Store.ListImageProjects(r.Context())
	if err != nil {
		m.ctx.Logger.Error("failed to list image projects", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	presets, err := m.ctx.Store.ListImagePresets(r.Context())
	if err != nil {
		m.ctx.Logger.Error("failed to list image presets", "error", err)
	}

	if err := m.ctx.Render.Render(w, r, "admin/image_projects", render.TemplateData{
		Title: "Image Studio",
		Data: map[string]any{
			"Projects": projects,
			"Presets":  presets,
		},
	}); err != nil {
		m.ctx.Logger.Error("render error", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleCreateProject handles POST /admin/image-studio/projects.
func (m *Module) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		m.ctx.Render.SetFlash(r, "Invalid form data", "error")
		http.Redirect(w, r, "/admin/image-studio", http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		m.ctx.Render.SetFlash(r, "Project name is required", "error")
		http.Redirect(w, r, "/admin/image-studio", http.StatusSeeOther)
		return
	}

	now := time.Now()
	id := uuid.NewString()
	if err := m.ctx.Store.CreateImageProject(r.Context(), store.CreateImageProjectParams{
		ID:        id,
		Name:      name,
		PresetID:  nullString(r.FormValue("preset_id")),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		m.ctx.Logger.Error("failed to create image project", "error", err)
		m.ctx.Render.SetFlash(r, "Failed to create project", "error")
		http.Redirect(w, r, "/admin/image-studio", http.StatusSeeOther)
		return
	}

	m.ctx.Render.SetFlash(r, "Project created", "success")
	http.Redirect(w, r, "/admin/image-studio/projects/"+id, http.StatusSeeOther)
}

// handleProject handles GET /admin/image-studio/projects/{id}.
func (m *Module) handleProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	project, err := m.ctx.Store.GetImageProjectByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		m.ctx.Logger.Error("failed to load image project", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	generations, err := m.ctx.Store.ListGenerations(r.Context(), id)
	if err != nil {
		m.ctx.Logger.Error("failed to list generations", "error", err)
	}
	presets, err := m.ctx.Store.ListImagePresets(r.Context())
	if err != nil {
		m.ctx.Logger.Error("failed to list image presets", "error", err)
	}

	var preset *store.ImagePreset
	if project.PresetID.Valid {
		if p, err := m.ctx.Store.GetImagePresetByID(r.Context(), project.PresetID.String); err == nil {
			preset = &p
		}
	}

	if err := m.ctx.Render.Render(w, r, "admin/image_project", render.TemplateData{
		Title: project.Name,
		Data: map[string]any{
			"Project":     project,
			"Preset":      preset,
			"Presets":     presets,
			"Generations": generations,
		},
	}); err != nil {
		m.ctx.Logger.Error("render error", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleUpdateProject handles POST /admin/image-studio/projects/{id}.
func (m *Module) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		m.ctx.Render.SetFlash(r, "Invalid form data", "error")
		http.Redirect(w, r, "/admin/image-studio/projects/"+id, http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		m.ctx.Render.SetFlash(r, "Project name is required", "error")
		http.Redirect(w, r, "/admin/image-studio/projects/"+id, http.StatusSeeOther)
		return
	}

	if err := m.ctx.Store.UpdateImageProject(r.Context(), id, name, nullString(r.FormValue("preset_id")), time.Now()); err != nil {
		m.ctx.Logger.Error("failed to update image project", "error", err)
		m.ctx.Render.SetFlash(r, "Failed to update project", "error")
	} else {
		m.ctx.Render.SetFlash(r, "Project updated", "success")
	}
	http.Redirect(w, r, "/admin/image-studio/projects/"+id, http.StatusSeeOther)
}

// handleDeleteProject handles POST /admin/image-studio/projects/{id}/delete.
// Generations cascade in the database; their files go with the project dir.
func (m *Module) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := m.ctx.Store.DeleteImageProject(r.Context(), id); err != nil {
		m.ctx.Logger.Error("failed to delete image project", "error", err)
		m.ctx.Render.SetFlash(r, "Failed to delete project", "error")
		http.Redirect(w, r, "/admin/image-studio", http.StatusSeeOther)
		return
	}
	if err := m.ctx.Imaging.DeleteFiles("generated", id); err != nil {
		m.ctx.Logger.Warn("failed to delete generated files", "project", id, "error", err)
	}

	m.ctx.Render.SetFlash(r, "Project deleted", "success")
	http.Redirect(w, r, "/admin/image-studio", http.StatusSeeOther)
}

// handleGenerate handles POST /admin/image-studio/projects/{id}/generate.
// The preset style prompt is appended to the user prompt; the resulting
// PNG and its thumbnail land under the uploads dir before the row commits.
func (m *Module) handleGenerate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	redirect := "/admin/image-studio/projects/" + id

	if m.ctx.Config.OpenAIAPIKey == "" {
		m.ctx.Logger.Error("image generation requested without configured credential")
		m.ctx.Render.SetFlash(r, "Image generation failed", "error")
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		m.ctx.Render.SetFlash(r, "Invalid form data", "error")
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}

	prompt := strings.TrimSpace(r.FormValue("prompt"))
	if prompt == "" {
		m.ctx.Render.SetFlash(r, "Prompt is required", "error")
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}

	project, err := m.ctx.Store.GetImageProjectByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		m.ctx.Logger.Error("failed to load image project", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	finalPrompt := prompt
	size := defaultImageSize
	if project.PresetID.Valid {
		if preset, err := m.ctx.Store.GetImagePresetByID(r.Context(), project.PresetID.String); err == nil {
			if preset.StylePrompt != "" {
				finalPrompt = prompt + ". " + preset.StylePrompt
			}
			if preset.Size != "" {
				size = preset.Size
			}
		}
	}

	result, err := m.generator.Generate(r.Context(), m.ctx.Config.OpenAIAPIKey, GenerateRequest{
		Prompt: finalPrompt,
		Model:  m.ctx.Config.ImageModel,
		Size:   size,
	})
	if err != nil {
		m.ctx.Logger.Error("image generation failed", "project", id, "error", err)
		m.ctx.Render.SetFlash(r, "Image generation failed", "error")
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}

	generationID := uuid.NewString()
	imagePath, thumbPath, err := m.ctx.Imaging.SaveGenerated(result.ImageData, id, generationID)
	if err != nil {
		m.ctx.Logger.Error("failed to save generated image", "project", id, "error", err)
		m.ctx.Render.SetFlash(r, "Image generation failed", "error")
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}

	if err := m.ctx.Store.CreateImageGeneration(r.Context(), store.CreateImageGenerationParams{
		ID:        generationID,
		ProjectID: id,
		Prompt:    finalPrompt,
		ImagePath: imagePath,
		ThumbPath: thumbPath,
		CreatedAt: time.Now(),
	}); err != nil {
		m.ctx.Logger.Error("failed to record generation", "project", id, "error", err)
		m.ctx.Render.SetFlash(r, "Image generation failed", "error")
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}

	_ = m.ctx.Events.LogImageEvent(r.Context(), model.EventLevelInfo, "image generated",
		map[string]any{"project": id, "generation": generationID, "model": result.Model})

	m.ctx.Render.SetFlash(r, "Image generated", "success")
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// handleSelectGeneration handles POST /admin/image-studio/projects/{id}/select/{generationID}.
func (m *Module) handleSelectGeneration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	generationID := chi.URLParam(r, "generationID")
	redirect := "/admin/image-studio/projects/" + id

	if err := store.SelectGeneration(r.Context(), m.ctx.DB, id, generationID); err != nil {
		m.ctx.Logger.Error("failed to select generation", "project", id, "generation", generationID, "error", err)
		m.ctx.Render.SetFlash(r, "Failed to select image", "error")
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}

	m.ctx.Render.SetFlash(r, "Image selected", "success")
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// handlePresets handles GET /admin/image-studio/presets.
func (m *Module) handlePresets(w http.ResponseWriter, r *http.Request) {
	presets, err := m.ctx.Store.ListImagePresets(r.Context())
	if err != nil {
		m.ctx.Logger.Error("failed to list image presets", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := m.ctx.Render.Render(w, r, "admin/image_presets", render.TemplateData{
		Title: "Image Presets",
		Data: map[string]any{
			"Presets": presets,
		},
	}); err != nil {
		m.ctx.Logger.Error("render error", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleCreatePreset handles POST /admin/image-studio/presets.
func (m *Module) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		m.ctx.Render.SetFlash(r, "Invalid form data", "error")
		http.Redirect(w, r, "/admin/image-studio/presets", http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	stylePrompt := strings.TrimSpace(r.FormValue("style_prompt"))
	if name == "" || stylePrompt == "" {
		m.ctx.Render.SetFlash(r, "Name and style prompt are required", "error")
		http.Redirect(w, r, "/admin/image-studio/presets", http.StatusSeeOther)
		return
	}

	size := strings.TrimSpace(r.FormValue("size"))
	if size == "" {
		size = defaultImageSize
	}

	now := time.Now()
	if err := m.ctx.Store.CreateImagePreset(r.Context(), store.CreateImagePresetParams{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(r.FormValue("description")),
		StylePrompt: stylePrompt,
		Size:        size,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		m.ctx.Logger.Error("failed to create image preset", "error", err)
		m.ctx.Render.SetFlash(r, "Failed to create preset", "error")
	} else {
		m.ctx.Render.SetFlash(r, "Preset created", "success")
	}
	http.Redirect(w, r, "/admin/image-studio/presets", http.StatusSeeOther)
}

// handleUpdatePreset handles POST /admin/image-studio/presets/{id}.
func (m *Module) handleUpdatePreset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		m.ctx.Render.SetFlash(r, "Invalid form data", "error")
		http.Redirect(w, r, "/admin/image-studio/presets", http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	stylePrompt := strings.TrimSpace(r.FormValue("style_prompt"))
	if name == "" || stylePrompt == "" {
		m.ctx.Render.SetFlash(r, "Name and style prompt are required", "error")
		http.Redirect(w, r, "/admin/image-studio/presets", http.StatusSeeOther)
		return
	}

	size := strings.TrimSpace(r.FormValue("size"))
	if size == "" {
		size = defaultImageSize
	}

	if err := m.ctx.Store.UpdateImagePreset(r.Context(), store.UpdateImagePresetParams{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(r.FormValue("description")),
		StylePrompt: stylePrompt,
		Size:        size,
		UpdatedAt:   time.Now(),
	}); err != nil {
		m.ctx.Logger.Error("failed to update image preset", "error", err)
		m.ctx.Render.SetFlash(r, "Failed to update preset", "error")
	} else {
		m.ctx.Render.SetFlash(r, "Preset updated", "success")
	}
	http.Redirect(w, r, "/admin/image-studio/presets", http.StatusSeeOther)
}

// handleDeletePreset handles POST /admin/image-studio/presets/{id}/delete.
// Projects referencing the preset keep running with a NULL preset.
func (m *Module) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := m.ctx.Store.DeleteImagePreset(r.Context(), id); err != nil {
		m.ctx.Logger.Error("failed to delete image preset", "error", err)
		m.ctx.Render.SetFlash(r, "Failed to delete preset", "error")
	} else {
		m.ctx.Render.SetFlash(r, "Preset deleted", "success")
	}
	http.Redirect(w, r, "/admin/image-studio/presets", http.StatusSeeOther)
}

// handleUpload handles POST /admin/image-studio/uploads. Reference images
// go through EXIF orientation correction before being stored; the editor
// consumes the JSON response.
func (m *Module) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "upload too large or malformed"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	id := uuid.NewString()
	result, err := m.ctx.Imaging.ProcessUpload(file, id, header.Filename)
	if err != nil {
		m.ctx.Logger.Error("reference image upload failed", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "unsupported or corrupt image"})
		return
	}

	_ = m.ctx.Events.LogImageEvent(r.Context(), model.EventLevelInfo, "reference image uploaded",
		map[string]any{"id": id, "size": result.Size})

	writeJSON(w, http.StatusOK, map[string]any{
		"id":     id,
		"url":    "/uploads/" + result.URLPath,
		"width":  result.Width,
		"height": result.Height,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// nullString maps an empty form value to NULL.
func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
