// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Language text directions
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// DefaultLanguageCode is the fallback platform language when the database
// carries no default row yet.
const DefaultLanguageCode = "ar"

// Language represents a content language of the platform.
type Language struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`        // ISO 639-1: ar, en, fr
	Name       string    `json:"name"`        // Arabic, English, French
	NativeName string    `json:"native_name"` // العربية, English, Français
	IsDefault  bool      `json:"is_default"`  // only one can be default
	IsActive   bool      `json:"is_active"`   // enabled for editing
	Direction  string    `json:"direction"`   // ltr, rtl
	Position   int       `json:"position"`    // sort order in language pickers
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsRTL returns true if the language is right-to-left.
func (l *Language) IsRTL() bool {
	return l.Direction == DirectionRTL
}

// CommonLanguages provides a list of languages offered in the add-language UI.
var CommonLanguages = []struct {
	Code       string
	Name       string
	NativeName string
	Direction  string
}{
	{"ar", "Arabic", "العربية", "rtl"},
	{"en", "English", "English", "ltr"},
	{"fr", "French", "Français", "ltr"},
	{"ur", "Urdu", "اردو", "rtl"},
	{"id", "Indonesian", "Bahasa Indonesia", "ltr"},
	{"tr", "Turkish", "Türkçe", "ltr"},
	{"fa", "Persian", "فارسی", "rtl"},
	{"ms", "Malay", "Bahasa Melayu", "ltr"},
	{"bn", "Bengali", "বাংলা", "ltr"},
	{"de", "German", "Deutsch", "ltr"},
	{"es", "Spanish", "Español", "ltr"},
	{"ru", "Russian", "Русский", "ltr"},
}
