package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/nklarmann/replyagent/internal/core/domain"
	"github.com/nklarmann/replyagent/internal/core/ports/driven"
	"github.com/nklarmann/replyagent/internal/core/ports/driving"
	"github.com/nklarmann/replyagent/internal/index"
	"github.com/nklarmann/replyagent/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// defaultTopK is the number of matches returned when the caller does
// not ask for a specific count.
const defaultTopK = 3

// previewLength caps the excerpt synthesized for records indexed
// without one.
const previewLength = 160

// SearchService ranks indexed emails by embedding similarity to a
// query.
type SearchService struct {
	store    driven.IndexStore
	embedder driven.EmbeddingService
}

// NewSearchService creates a new search service.
func NewSearchService(store driven.IndexStore, embedder driven.EmbeddingService) *SearchService {
	return &SearchService{store: store, embedder: embedder}
}

// Search embeds the query and returns the topK most similar indexed
// emails, best first.
func (s *SearchService) Search(ctx context.Context, query string, topK int) ([]domain.Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	records, err := s.store.EnsureFresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	if len(records) == 0 {
		return nil, domain.ErrIndexEmpty
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	matches := index.Rank(embedding, records, topK)
	for i := range matches {
		if matches[i].Email.Preview == "" {
			matches[i].Email.Preview = previewOf(matches[i].Email.Body)
		}
	}

	logger.Debug("Search %q returned %d matches", query, len(matches))
	return matches, nil
}

// previewOf synthesizes a single-line excerpt from a body.
func previewOf(body string) string {
	return truncateRunes(strings.Join(strings.Fields(body), " "), previewLength)
}
