// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markdown renders translation bodies for the admin preview pane.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// bodyPolicy allows the HTML user-generated markdown produces while
// stripping scripts and event handlers.
var bodyPolicy = bluemonday.UGCPolicy()

// Render converts a markdown body to sanitized HTML.
func Render(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(bodyPolicy.SanitizeBytes(buf.Bytes())), nil
}

// Sanitize strips unsafe HTML from an already-rendered body, used when a
// legacy row stored raw HTML instead of markdown.
func Sanitize(html string) template.HTML {
	return template.HTML(bodyPolicy.Sanitize(html))
}
