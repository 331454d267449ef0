package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple title", "Virtues of Ramadan", "virtues-of-ramadan"},
		{"accents stripped", "Coût de la Prière", "cout-de-la-priere"},
		{"punctuation dropped", "What is Fiqh? (Part 1)", "what-is-fiqh-part-1"},
		{"multiple spaces", "a   b", "a-b"},
		{"already a slug", "already-a-slug", "already-a-slug"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugifyTransliteratesArabic(t *testing.T) {
	got := Slugify("رمضان")
	if got == "" {
		t.Fatal("arabic title should transliterate to a non-empty slug")
	}
	if !IsValidSlug(got) {
		t.Errorf("transliterated slug %q is not valid", got)
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"abc", "a-b-c", "a1", "1"}
	invalid := []string{"", "-abc", "abc-", "a--b", "Abc", "a_b", "a b"}

	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}

func TestIsValidLangCode(t *testing.T) {
	if !IsValidLangCode("ar") || !IsValidLangCode("en") {
		t.Error("two-letter lowercase codes are valid")
	}
	for _, s := range []string{"", "a", "arb", "AR", "a1"} {
		if IsValidLangCode(s) {
			t.Errorf("IsValidLangCode(%q) = true, want false", s)
		}
	}
}
