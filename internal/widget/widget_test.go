package widget

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewRegistryLoadsAllOrnaments(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	for _, key := range []string{OrnamentDivider, OrnamentFrame, OrnamentBasmala, OrnamentCrescent} {
		svg, ok := r.Get(key)
		if !ok {
			t.Errorf("ornament %s missing", key)
			continue
		}
		if !strings.Contains(string(svg), "<svg") {
			t.Errorf("ornament %s is not an svg: %q", key, svg)
		}
	}

	keys := r.Keys()
	if len(keys) != 4 {
		t.Errorf("got %d keys, want 4: %v", len(keys), keys)
	}
}

func TestRegistryGetUnknownKey(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if _, ok := r.Get("nonexistent"); ok {
		t.Error("unknown key should not resolve")
	}
}

func TestRegistryServeHTTP(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/admin/ornaments/divider.svg", nil))
	if w.Code != 200 {
		t.Fatalf("code = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "<svg") {
		t.Errorf("body = %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/admin/ornaments/unknown.svg", nil))
	if w.Code != 404 {
		t.Errorf("unknown ornament code = %d, want 404", w.Code)
	}
}
