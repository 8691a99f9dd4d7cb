package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nklarmann/replyagent/internal/core/domain"
	"github.com/nklarmann/replyagent/internal/core/ports/driving"
)

type stubSearch struct {
	matches []domain.Match
	err     error
}

func (s *stubSearch) Search(_ context.Context, query string, _ int) ([]domain.Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.matches, nil
}

type stubDraft struct {
	result *driving.DraftResult
	err    error
	last   driving.DraftRequest
}

func (s *stubDraft) Draft(_ context.Context, req driving.DraftRequest) (*driving.DraftResult, error) {
	s.last = req
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Intent) == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestServer(search *stubSearch, draft *stubDraft) *httptest.Server {
	return httptest.NewServer(NewServer(search, draft).Handler())
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp, payload
}

func sampleMatch() domain.Match {
	return domain.Match{
		Email: domain.IndexedEmail{
			ID:       "mail-1",
			Subject:  "Workshop",
			Preview:  "kurzer Auszug",
			Category: domain.CategoryColleagues,
			Date:     "2024-03-12",
		},
		Similarity: 0.91,
	}
}

func TestSearchEndpoint(t *testing.T) {
	server := newTestServer(&stubSearch{matches: []domain.Match{sampleMatch()}}, &stubDraft{})
	defer server.Close()

	resp, payload := postJSON(t, server.URL+"/api/search", `{"query":"workshop","topK":3}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	results := payload["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "mail-1", first["id"])
	assert.Equal(t, "Workshop", first["subject"])
	assert.Equal(t, "colleagues", first["category"])
	assert.InDelta(t, 0.91, first["similarity"].(float64), 1e-9)
}

func TestSearchEndpoint_BlankQuery(t *testing.T) {
	server := newTestServer(&stubSearch{}, &stubDraft{})
	defer server.Close()

	resp, payload := postJSON(t, server.URL+"/api/search", `{"query":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, payload["error"])
}

func TestSearchEndpoint_EmptyIndex(t *testing.T) {
	server := newTestServer(&stubSearch{err: domain.ErrIndexEmpty}, &stubDraft{})
	defer server.Close()

	resp, payload := postJSON(t, server.URL+"/api/search", `{"query":"workshop"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, payload["error"], "Email index is empty")
}

func TestSearchEndpoint_EmbeddingDown(t *testing.T) {
	server := newTestServer(&stubSearch{err: domain.ErrEmbeddingUnavailable}, &stubDraft{})
	defer server.Close()

	resp, _ := postJSON(t, server.URL+"/api/search", `{"query":"workshop"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestSearchEndpoint_InvalidJSON(t *testing.T) {
	server := newTestServer(&stubSearch{}, &stubDraft{})
	defer server.Close()

	resp, _ := postJSON(t, server.URL+"/api/search", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchEndpoint_MethodNotAllowed(t *testing.T) {
	server := newTestServer(&stubSearch{}, &stubDraft{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/search")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestDraftEndpoint(t *testing.T) {
	draft := &stubDraft{result: &driving.DraftResult{
		Text:    "Hallo Anna,\n\npasst.\n\nViele Grüße,",
		Sources: []domain.Match{sampleMatch()},
	}}
	server := newTestServer(&stubSearch{}, draft)
	defer server.Close()

	resp, payload := postJSON(t, server.URL+"/api/draft",
		`{"email":"Wann?","intent":"Mittwoch","language":"de","backend":"ollama-strong","enforcedSalutation":"Hallo Anna"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hallo Anna,\n\npasst.\n\nViele Grüße,", payload["text"])
	require.Len(t, payload["sources"].([]any), 1)

	assert.Equal(t, "de", draft.last.Language)
	assert.Equal(t, "ollama-strong", draft.last.Backend)
	assert.Equal(t, "Hallo Anna", draft.last.EnforcedSalutation)
}

func TestDraftEndpoint_MissingInputs(t *testing.T) {
	server := newTestServer(&stubSearch{}, &stubDraft{})
	defer server.Close()

	resp, _ := postJSON(t, server.URL+"/api/draft", `{"email":"","intent":"x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDraftEndpoint_LLMDown(t *testing.T) {
	server := newTestServer(&stubSearch{}, &stubDraft{err: domain.ErrLLMUnavailable})
	defer server.Close()

	resp, _ := postJSON(t, server.URL+"/api/draft", `{"email":"Mail","intent":"Antwort"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(&stubSearch{}, &stubDraft{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

type watchStore struct {
	path        string
	invalidated chan struct{}
}

func (w *watchStore) EnsureFresh(_ context.Context) ([]domain.IndexedEmail, error) { return nil, nil }

func (w *watchStore) Invalidate() {
	select {
	case w.invalidated <- struct{}{}:
	default:
	}
}

func (w *watchStore) Path() string { return w.path }

func TestWatchIndex_InvalidatesOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "email_index.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	store := &watchStore{path: path, invalidated: make(chan struct{}, 1)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- WatchIndex(ctx, store) }()

	// Give the watcher a moment to register before touching the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("{\"id\":\"x\"}\n"), 0o644))

	select {
	case <-store.invalidated:
	case <-time.After(2 * time.Second):
		t.Fatal("store was not invalidated after index change")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
}

func TestWatchIndex_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "email_index.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	store := &watchStore{path: path, invalidated: make(chan struct{}, 1)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = WatchIndex(ctx, store) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))

	select {
	case <-store.invalidated:
		t.Fatal("unrelated file change invalidated the store")
	case <-time.After(300 * time.Millisecond):
	}
}
