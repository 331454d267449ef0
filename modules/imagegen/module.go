// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imagegen provides the image studio module: reusable style
// presets, generation projects, and AI image generation with a selected
// output per project.
package imagegen

import (
	"github.com/go-chi/chi/v5"

	"github.com/Alban-i/manhaj-admin-sub002/internal/module"
)

// Module implements module.Module for the image studio.
type Module struct {
	module.BaseModule
	ctx       *module.Context
	generator Generator
}

// New creates the image studio module.
func New() *Module {
	return &Module{
		BaseModule: module.NewBaseModule(
			"imagegen",
			"1.0.0",
			"AI image studio",
		),
	}
}

// Init initializes the module with the given context.
func (m *Module) Init(ctx *module.Context) error {
	m.ctx = ctx
	m.generator = newImageClient()
	ctx.Logger.Info("imagegen module initialized", "credential_configured", ctx.Config.OpenAIAPIKey != "")
	return nil
}

// Shutdown performs cleanup when the module is shutting down.
func (m *Module) Shutdown() error {
	if m.ctx != nil {
		m.ctx.Logger.Info("imagegen module shutting down")
	}
	return nil
}

// RegisterAdminRoutes registers admin routes for the module.
func (m *Module) RegisterAdminRoutes(r chi.Router) {
	r.Get("/image-studio", m.handleProjects)
	r.Post("/image-studio/projects", m.handleCreateProject)
	r.Get("/image-studio/projects/{id}", m.handleProject)
	r.Post("/image-studio/projects/{id}", m.handleUpdateProject)
	r.Post("/image-studio/projects/{id}/delete", m.handleDeleteProject)
	r.Post("/image-studio/projects/{id}/generate", m.handleGenerate)
	r.Post("/image-studio/projects/{id}/select/{generationID}", m.handleSelectGeneration)

	r.Get("/image-studio/presets", m.handlePresets)
	r.Post("/image-studio/presets", m.handleCreatePreset)
	r.Post("/image-studio/presets/{id}", m.handleUpdatePreset)
	r.Post("/image-studio/presets/{id}/delete", m.handleDeletePreset)

	r.Post("/image-studio/uploads", m.handleUpload)
}
