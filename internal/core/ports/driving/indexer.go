package driving

import "context"

// BuildStats summarises a bulk corpus run. Partial failures are
// counted and reported here, never escalated to an overall failure.
type BuildStats struct {
	// Processed is the number of corpus files that yielded a usable
	// email.
	Processed int

	// Embedded is the number of emails successfully embedded and
	// written to the index.
	Embedded int

	// Skipped is the number of files skipped (unparseable, filtered
	// out, or empty after sanitisation).
	Skipped int

	// Failed is the number of emails whose embedding request failed.
	Failed int
}

// IndexBuildOptions configures an index build.
type IndexBuildOptions struct {
	// CorpusDir is the root directory of the markdown email corpus.
	CorpusDir string

	// Limit caps the number of emails processed (0 = no limit).
	Limit int

	// AuthoredOnly restricts the build to emails written by the
	// corpus owner.
	AuthoredOnly bool
}

// IndexBuilder builds the serialized email index from the corpus.
type IndexBuilder interface {
	// Build walks the corpus, classifies and embeds each email, and
	// atomically replaces the index file.
	Build(ctx context.Context, opts IndexBuildOptions) (*BuildStats, error)
}
