package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or missing input,
	// such as an empty email body or an empty reply intent.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIndexEmpty indicates the email index has no usable entries.
	// Retrieval and drafting require a built index.
	ErrIndexEmpty = errors.New("email index is empty")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Semantic retrieval is disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the generation service is not
	// configured. Drafting is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrMissingFrontmatter indicates a corpus file has no frontmatter
	// block. The file is skipped during bulk runs.
	ErrMissingFrontmatter = errors.New("missing frontmatter block")
)
