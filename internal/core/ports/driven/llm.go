package driven

import "context"

// LLMService provides text generation for reply drafting.
//
// The core never inspects the generated text's semantics; it only
// hands the result to a lightweight post-processing step.
//
// Implementations may include:
//   - Ollama (llama3.2:1b, llama3.1)
//   - OpenAI (gpt-4o-mini)
type LLMService interface {
	// Chat sends a system instruction and a user prompt and returns
	// the generated text.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system" or "user".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures generation behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
