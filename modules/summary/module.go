// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

// Package summary provides the AI summary module. It exposes one admin API
// endpoint that condenses an article body into a short summary through the
// OpenAI chat completions API.
package summary

import (
	"github.com/go-chi/chi/v5"

	"github.com/Alban-i/manhaj-admin-sub002/internal/module"
)

// Module implements module.Module for AI summaries.
type Module struct {
	module.BaseModule
	ctx        *module.Context
	summarizer Summarizer
}

// New creates the summary module.
func New() *Module {
	return &Module{
		BaseModule: module.NewBaseModule(
			"summary",
			"1.0.0",
			"AI content summarization",
		),
	}
}

// Init wires the OpenAI client when a credential is configured. Without a
// credential the summarizer stays nil and the endpoint fails closed.
func (m *Module) Init(ctx *module.Context) error {
	m.ctx = ctx
	if ctx.Config.SummaryEnabled() {
		m.summarizer = newOpenAISummarizer(ctx.Config.OpenAIAPIKey, ctx.Config.SummaryModel)
	}
	ctx.Logger.Info("summary module initialized", "enabled", ctx.Config.SummaryEnabled())
	return nil
}

// Shutdown performs cleanup when the module is shutting down.
func (m *Module) Shutdown() error {
	if m.ctx != nil {
		m.ctx.Logger.Info("summary module shutting down")
	}
	return nil
}

// RegisterAdminRoutes registers admin routes for the module.
func (m *Module) RegisterAdminRoutes(r chi.Router) {
	r.Post("/api/summary", m.handleSummarize)
}
