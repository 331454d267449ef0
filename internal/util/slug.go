// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation and validation with transliteration support.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// slugRegex matches non-alphanumeric characters (except hyphens)
	slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a string to a URL-friendly slug. Non-Latin scripts
// (most titles here are Arabic) are transliterated to ASCII first, then
// accents are stripped, spaces become hyphens, and everything outside
// [a-z0-9-] is dropped.
func Slugify(s string) string {
	// Transliterate to ASCII (e.g. "فضل رمضان" -> "fdl rmdan")
	result := unidecode.Unidecode(s)

	// Normalize unicode characters (decompose accents)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ = transform.String(t, result)

	// Convert to lowercase
	result = strings.ToLower(result)

	// Replace spaces with hyphens
	result = strings.ReplaceAll(result, " ", "-")

	// Remove all non-alphanumeric characters except hyphens
	result = slugRegex.ReplaceAllString(result, "")

	// Replace multiple hyphens with single hyphen
	result = multipleHyphens.ReplaceAllString(result, "-")

	// Trim hyphens from start and end
	result = strings.Trim(result, "-")

	return result
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	if strings.Contains(s, "--") {
		return false
	}

	return true
}

// IsValidLangCode checks if a string looks like a two-letter language code.
func IsValidLangCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
