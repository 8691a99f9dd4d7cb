package driving

import (
	"context"

	"github.com/nklarmann/replyagent/internal/core/domain"
)

// SearchService provides semantic retrieval over the email index.
type SearchService interface {
	// Search embeds the query and returns the topK most similar
	// indexed emails. A topK of zero or less uses the configured
	// default. Returns domain.ErrInvalidInput for a blank query and
	// domain.ErrIndexEmpty when the index has no entries.
	Search(ctx context.Context, query string, topK int) ([]domain.Match, error)
}
