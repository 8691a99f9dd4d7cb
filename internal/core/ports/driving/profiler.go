package driving

import (
	"context"

	"github.com/nklarmann/replyagent/internal/core/domain"
)

// ProfileBuildOptions configures a style profile build.
type ProfileBuildOptions struct {
	// CorpusDir is the root directory of the markdown email corpus.
	CorpusDir string

	// Limit caps the number of emails processed (0 = no limit).
	Limit int
}

// ProfileBuilder aggregates per-category style statistics from the
// corpus into a profile document.
type ProfileBuilder interface {
	// Build walks the corpus, keeps emails authored by the corpus
	// owner, folds them into per-category statistics and writes the
	// profile document.
	Build(ctx context.Context, opts ProfileBuildOptions) (*domain.StyleProfileDocument, error)
}
