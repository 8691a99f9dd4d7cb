// Package httpapi exposes search and drafting over a small JSON HTTP
// API, mirroring the endpoints the desktop client consumes.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nklarmann/replyagent/internal/core/domain"
	"github.com/nklarmann/replyagent/internal/core/ports/driving"
	"github.com/nklarmann/replyagent/internal/logger"
)

// Server routes API requests to the core services.
type Server struct {
	search driving.SearchService
	draft  driving.DraftService
}

// NewServer creates a new API server.
func NewServer(search driving.SearchService, draft driving.DraftService) *Server {
	return &Server{search: search, draft: draft}
}

// Handler returns the full route tree with request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/draft", s.handleDraft)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return withRequestLogging(mux)
}

// withRequestLogging tags every request with an ID and logs method,
// path and duration.
func withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("%s %s [%s] in %s", r.Method, r.URL.Path, requestID, time.Since(start))
	})
}

// searchRequest is the /api/search request body.
type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
}

// searchResult is one entry of the /api/search response.
type searchResult struct {
	ID         string                  `json:"id"`
	Subject    string                  `json:"subject,omitempty"`
	Preview    string                  `json:"preview,omitempty"`
	Category   domain.AudienceCategory `json:"category"`
	Similarity float64                 `json:"similarity"`
	Date       string                  `json:"date,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	matches, err := s.search.Search(r.Context(), req.Query, req.TopK)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	results := make([]searchResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, searchResult{
			ID:         match.Email.ID,
			Subject:    match.Email.Subject,
			Preview:    match.Email.Preview,
			Category:   match.Email.Category,
			Similarity: match.Similarity,
			Date:       match.Email.Date,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// draftRequest is the /api/draft request body.
type draftRequest struct {
	Email              string                `json:"email"`
	Intent             string                `json:"intent"`
	Mode               string                `json:"mode,omitempty"`
	StyleGuidance      *domain.StyleGuidance `json:"styleGuidance,omitempty"`
	Backend            string                `json:"backend,omitempty"`
	Language           string                `json:"language,omitempty"`
	EnforcedSalutation string                `json:"enforcedSalutation,omitempty"`
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	result, err := s.draft.Draft(r.Context(), driving.DraftRequest{
		Email:              req.Email,
		Intent:             req.Intent,
		Mode:               driving.DraftMode(req.Mode),
		StyleGuidance:      req.StyleGuidance,
		Backend:            req.Backend,
		Language:           req.Language,
		EnforcedSalutation: req.EnforcedSalutation,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	sources := make([]searchResult, 0, len(result.Sources))
	for _, match := range result.Sources {
		sources = append(sources, searchResult{
			ID:         match.Email.ID,
			Subject:    match.Email.Subject,
			Preview:    match.Email.Preview,
			Category:   match.Email.Category,
			Similarity: match.Similarity,
			Date:       match.Email.Date,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"text":    result.Text,
		"sources": sources,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeServiceError maps core errors onto HTTP status codes: invalid
// input is the caller's fault, an empty index means the service is
// not ready, and collaborator failures surface as bad gateway.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrIndexEmpty):
		writeError(w, http.StatusServiceUnavailable, "Email index is empty. Rebuild it before querying.")
	case errors.Is(err, domain.ErrEmbeddingUnavailable), errors.Is(err, domain.ErrLLMUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusRequestTimeout, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("Failed to encode response: %v", err)
	}
}
