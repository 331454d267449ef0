// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "regexp"

// IdentifierNew is the reserved identifier meaning "no entity yet".
// Read resolvers must short-circuit to an empty result without touching
// storage when they see it.
const IdentifierNew = "new"

// IdentifierKind classifies a caller-supplied identifier string.
type IdentifierKind int

const (
	// IdentifierUUID matches the canonical 8-4-4-4-12 hexadecimal form.
	IdentifierUUID IdentifierKind = iota
	// IdentifierSlug is any other non-sentinel string, including malformed
	// UUIDs and the empty string. Malformed slugs are not an error; they
	// simply resolve to not found.
	IdentifierSlug
	// IdentifierSentinel is the literal "new".
	IdentifierSentinel
)

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// ClassifyIdentifier decides whether an identifier is a UUID, a slug, or the
// reserved "new" sentinel. Classification is total: every string falls into
// exactly one bucket and lookups never try both.
func ClassifyIdentifier(s string) IdentifierKind {
	if s == IdentifierNew {
		return IdentifierSentinel
	}
	if uuidPattern.MatchString(s) {
		return IdentifierUUID
	}
	return IdentifierSlug
}

// IsUUID reports whether s matches the canonical UUID pattern.
func IsUUID(s string) bool {
	return uuidPattern.MatchString(s)
}
