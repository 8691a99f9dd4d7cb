package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Callers truncate input text to a fixed maximum character length
// before requesting; a per-document failure is recoverable and must
// not abort a bulk index build.
//
// Implementations may include:
//   - Ollama (mxbai-embed-large, nomic-embed-text)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request. Used at startup before committing to an index build.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
