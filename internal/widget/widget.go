// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

// Package widget serves the decorative SVG ornaments used around article
// and fatwa headings. The ornament set is fixed and embedded, so the whole
// inventory is loaded once at startup into a static map and never grows.
package widget

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

//go:embed assets/*.svg
var assetsFS embed.FS

// Known ornament keys. The template side refers to ornaments by these
// names; anything else is a 404.
const (
	OrnamentDivider  = "divider"
	OrnamentFrame    = "frame"
	OrnamentBasmala  = "basmala"
	OrnamentCrescent = "crescent"
)

// svgPolicy allows the SVG structural elements and presentation attributes
// the ornaments use, nothing executable.
var svgPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("svg", "g", "path", "circle", "rect", "line", "polyline", "polygon", "defs", "use", "title")
	p.AllowAttrs("xmlns", "viewBox", "width", "height", "fill", "stroke",
		"stroke-width", "stroke-linecap", "stroke-linejoin", "d", "cx", "cy", "r",
		"x", "y", "x1", "y1", "x2", "y2", "points", "transform", "opacity", "id", "href").Globally()
	return p
}()

// Registry holds the sanitized ornament set.
type Registry struct {
	ornaments map[string]template.HTML
}

// NewRegistry loads and sanitizes every embedded ornament. It fails when
// an asset is missing or sanitizes to nothing, so a broken asset set is
// caught at startup rather than at render time.
func NewRegistry() (*Registry, error) {
	ornaments := make(map[string]template.HTML)

	entries, err := fs.ReadDir(assetsFS, "assets")
	if err != nil {
		return nil, fmt.Errorf("reading ornament assets: %w", err)
	}
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".svg")
		raw, err := assetsFS.ReadFile("assets/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading ornament %s: %w", name, err)
		}
		clean := svgPolicy.Sanitize(string(raw))
		if strings.TrimSpace(clean) == "" {
			return nil, fmt.Errorf("ornament %s sanitized to empty output", name)
		}
		ornaments[name] = template.HTML(clean)
	}

	for _, key := range []string{OrnamentDivider, OrnamentFrame, OrnamentBasmala, OrnamentCrescent} {
		if _, ok := ornaments[key]; !ok {
			return nil, fmt.Errorf("ornament asset missing: %s", key)
		}
	}

	return &Registry{ornaments: ornaments}, nil
}

// Get returns the ornament for a key.
func (r *Registry) Get(key string) (template.HTML, bool) {
	svg, ok := r.ornaments[key]
	return svg, ok
}

// Keys returns the ornament keys, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.ornaments))
	for k := range r.ornaments {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ServeHTTP serves a single ornament as image/svg+xml. The key is the
// final path segment.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	key := req.URL.Path
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		key = key[i+1:]
	}
	key = strings.TrimSuffix(key, ".svg")

	svg, ok := r.Get(key)
	if !ok {
		http.NotFound(w, req)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(svg))
}
