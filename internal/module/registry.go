// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package module

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Registry manages module registration and lifecycle.
type Registry struct {
	modules map[string]Module
	order   []string // initialization order
	logger  *slog.Logger
	mu      sync.RWMutex
}

// NewRegistry creates a module registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		modules: make(map[string]Module),
		logger:  logger,
	}
}

// Register adds a module. Modules initialize in registration order.
func (r *Registry) Register(m Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := m.Name()
	if _, exists := r.modules[name]; exists {
		return fmt.Errorf("module %q already registered", name)
	}
	r.modules[name] = m
	r.order = append(r.order, name)
	r.logger.Info("module registered", "name", name, "version", m.Version())
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	return m, ok
}

// List returns all registered modules in registration order.
func (r *Registry) List() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modules := make([]Module, 0, len(r.order))
	for _, name := range r.order {
		modules = append(modules, r.modules[name])
	}
	return modules
}

// InitAll initializes all registered modules in order.
func (r *Registry) InitAll(ctx *Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		r.logger.Info("initializing module", "name", name)
		if err := r.modules[name].Init(ctx); err != nil {
			return fmt.Errorf("initializing module %q: %w", name, err)
		}
	}
	return nil
}

// RegisterAdminRoutes mounts every module's admin routes.
func (r *Registry) RegisterAdminRoutes(router chi.Router) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		r.modules[name].RegisterAdminRoutes(router)
	}
}

// ShutdownAll shuts modules down in reverse registration order.
func (r *Registry) ShutdownAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.order) - 1; i >= 0; i-- {
		name := r.order[i]
		if err := r.modules[name].Shutdown(); err != nil {
			r.logger.Error("module shutdown failed", "name", name, "error", err)
		}
	}
}
