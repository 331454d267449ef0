// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

// Package module provides the module system hosting the AI features.
// Modules register admin routes and share the application services
// through a Context.
package module

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/Alban-i/manhaj-admin-sub002/internal/cache"
	"github.com/Alban-i/manhaj-admin-sub002/internal/config"
	"github.com/Alban-i/manhaj-admin-sub002/internal/imaging"
	"github.com/Alban-i/manhaj-admin-sub002/internal/render"
	"github.com/Alban-i/manhaj-admin-sub002/internal/service"
	"github.com/Alban-i/manhaj-admin-sub002/internal/store"
)

// Context provides access to application services for modules.
type Context struct {
	DB      *sql.DB
	Store   *store.Queries
	Logger  *slog.Logger
	Config  *config.Config
	Render  *render.Renderer
	Events  *service.EventService
	Imaging *imaging.Processor

	// Cache is optional. Modules must tolerate a nil Cache.
	Cache cache.Cacher
}

// Module is the interface all modules implement.
type Module interface {
	// Name returns the module name.
	Name() string
	// Version returns the module version.
	Version() string
	// Description returns the module description.
	Description() string

	// Init initializes the module with the given context.
	Init(ctx *Context) error
	// Shutdown performs cleanup when the module is shutting down.
	Shutdown() error

	// RegisterAdminRoutes registers admin routes for the module.
	RegisterAdminRoutes(r chi.Router)
}

// BaseModule provides default implementations of the Module interface.
// Modules embed it and override what they need.
type BaseModule struct {
	name        string
	version     string
	description string
	ctx         *Context
}

// NewBaseModule creates a BaseModule with the given metadata.
func NewBaseModule(name, version, description string) BaseModule {
	return BaseModule{name: name, version: version, description: description}
}

// Name returns the module name.
func (m *BaseModule) Name() string { return m.name }

// Version returns the module version.
func (m *BaseModule) Version() string { return m.version }

// Description returns the module description.
func (m *BaseModule) Description() string { return m.description }

// Init stores the context for later use.
func (m *BaseModule) Init(ctx *Context) error {
	m.ctx = ctx
	return nil
}

// Context returns the context the module was initialized with.
func (m *BaseModule) Context() *Context { return m.ctx }

// Shutdown performs cleanup (no-op by default).
func (m *BaseModule) Shutdown() error { return nil }

// RegisterAdminRoutes registers admin routes (no-op by default).
func (m *BaseModule) RegisterAdminRoutes(_ chi.Router) {}
