package summary

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"
	"github.com/openai/openai-go/v3/option"

	"github.com/Alban-i/manhaj-admin-sub002/internal/cache"
	"github.com/Alban-i/manhaj-admin-sub002/internal/config"
	"github.com/Alban-i/manhaj-admin-sub002/internal/model"
	"github.com/Alban-i/manhaj-admin-sub002/internal/module"
	"github.com/Alban-i/manhaj-admin-sub002/internal/service"
	"github.com/Alban-i/manhaj-admin-sub002/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func newTestModule(t *testing.T, apiKey string) (*Module, *sql.DB) {
	t.Helper()

	db := testDB(t)
	m := New()
	ctx := &module.Context{
		DB:     db,
		Store:  store.New(db),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: &config.Config{OpenAIAPIKey: apiKey, SummaryModel: "gpt-4o-mini"},
		Events: service.NewEventService(db),
	}
	if err := m.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return m, db
}

// stubSummarizer lets handler tests control the summarizer outcome.
type stubSummarizer struct {
	summary string
	err     error
}

func (s *stubSummarizer) Summarize(_ context.Context, _ string) (string, error) {
	return s.summary, s.err
}

func postSummary(t *testing.T, m *Module, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	m.RegisterAdminRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/api/summary", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleSummarizeSuccess(t *testing.T) {
	m, db := newTestModule(t, "test-key")
	m.summarizer = &stubSummarizer{summary: "A short summary."}

	rec := postSummary(t, m, `{"content":"A long article body."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Summary != "A short summary." {
		t.Errorf("summary = %q", resp.Summary)
	}

	events, err := store.New(db).ListEvents(context.Background(), store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 || events[0].Category != model.EventCategoryAI {
		t.Errorf("expected one ai event, got %+v", events)
	}
}

func TestHandleSummarizeFailsClosedWithoutCredential(t *testing.T) {
	m, _ := newTestModule(t, "")

	rec := postSummary(t, m, `{"content":"A long article body."}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "summary generation failed") {
		t.Errorf("body = %q, want generic error", rec.Body.String())
	}
}

func TestHandleSummarizeServesCachedResult(t *testing.T) {
	m, _ := newTestModule(t, "test-key")
	stub := &stubSummarizer{summary: "First answer."}
	m.summarizer = stub
	m.ctx.Cache = cache.New(cache.DefaultConfig())
	t.Cleanup(func() { _ = m.ctx.Cache.Close() })

	rec := postSummary(t, m, `{"content":"A long article body."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// The same body must be answered from cache, not the provider.
	stub.summary = "Second answer."
	rec = postSummary(t, m, `{"content":"A long article body."}`)
	var resp summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Summary != "First answer." {
		t.Errorf("summary = %q, want cached first answer", resp.Summary)
	}

	rec = postSummary(t, m, `{"content":"A different body."}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Summary != "Second answer." {
		t.Errorf("summary = %q, want fresh answer for new body", resp.Summary)
	}
}

func TestHandleSummarizeBlankContent(t *testing.T) {
	m, _ := newTestModule(t, "test-key")
	m.summarizer = &stubSummarizer{summary: "unused"}

	for _, body := range []string{`{"content":"   "}`, `{}`, `not json`} {
		rec := postSummary(t, m, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestHandleSummarizePropagatesUpstreamStatus(t *testing.T) {
	m, _ := newTestModule(t, "test-key")
	m.summarizer = &stubSummarizer{err: &UpstreamError{Status: http.StatusTooManyRequests}}

	rec := postSummary(t, m, `{"content":"A long article body."}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "summary generation failed" {
		t.Errorf("error = %q, want generic message", resp.Error)
	}
}

func TestOpenAISummarizer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  A short summary.  "}}]}`))
	}))
	defer srv.Close()

	s := newOpenAISummarizer("test-key", "gpt-4o-mini",
		option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	summary, err := s.Summarize(context.Background(), "A long article body.")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary != "A short summary." {
		t.Errorf("summary = %q", summary)
	}
}

func TestOpenAISummarizerUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"bad gateway"}}`, http.StatusBadGateway)
	}))
	defer srv.Close()

	s := newOpenAISummarizer("test-key", "gpt-4o-mini",
		option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	_, err := s.Summarize(context.Background(), "A long article body.")
	var upstream *UpstreamError
	if err == nil || !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if upstream.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", upstream.Status)
	}
}
