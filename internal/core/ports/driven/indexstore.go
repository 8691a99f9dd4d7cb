package driven

import (
	"context"

	"github.com/nklarmann/replyagent/internal/core/domain"
)

// IndexStore serves the embedded email collection to query-time
// consumers.
//
// The store caches the last successfully parsed collection and only
// re-reads the backing file when its modification timestamp changes.
// The cached snapshot is immutable: a reload replaces the collection
// reference atomically, never patches it in place.
type IndexStore interface {
	// EnsureFresh returns the current collection, reloading the
	// backing file first if its modification timestamp changed. On
	// read failure the store degrades to an empty collection and logs
	// a warning rather than failing the caller.
	EnsureFresh(ctx context.Context) ([]domain.IndexedEmail, error)

	// Invalidate forces the next EnsureFresh call to reload.
	Invalidate()

	// Path returns the backing file location.
	Path() string
}
