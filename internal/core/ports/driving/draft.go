package driving

import (
	"context"

	"github.com/nklarmann/replyagent/internal/core/domain"
)

// DraftMode selects how much context the draft prompt carries.
type DraftMode string

// Draft modes.
const (
	// ModeRetrieval augments the prompt with retrieved past
	// correspondence.
	ModeRetrieval DraftMode = "rag"

	// ModeVanilla drafts from the email and intent alone.
	ModeVanilla DraftMode = "vanilla"
)

// DraftRequest carries everything needed to draft a reply.
type DraftRequest struct {
	// Email is the original incoming message text. Required.
	Email string

	// Intent is the short description of what the reply should say.
	// Required.
	Intent string

	// Mode selects retrieval-augmented or vanilla drafting.
	// Defaults to ModeRetrieval.
	Mode DraftMode

	// StyleGuidance optionally conditions the draft on per-category
	// writing statistics.
	StyleGuidance *domain.StyleGuidance

	// Backend optionally selects the generation backend
	// ("ollama", "ollama-strong", "openai").
	Backend string

	// Language optionally forces the reply language ("de" or "en").
	Language string

	// EnforcedSalutation optionally forces the exact opening
	// salutation of the reply.
	EnforcedSalutation string
}

// DraftResult is a generated reply plus the context used to build it.
type DraftResult struct {
	// Text is the polished generated reply.
	Text string

	// Sources lists the retrieved matches used as context. Empty in
	// vanilla mode.
	Sources []domain.Match
}

// DraftService drafts email replies.
type DraftService interface {
	// Draft validates the request, optionally retrieves context,
	// generates a reply and polishes it. Returns
	// domain.ErrInvalidInput when email or intent are blank and
	// domain.ErrIndexEmpty when retrieval is requested against an
	// empty index.
	Draft(ctx context.Context, req DraftRequest) (*DraftResult, error)
}
