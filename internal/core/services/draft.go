package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nklarmann/replyagent/internal/anonymiser"
	"github.com/nklarmann/replyagent/internal/core/domain"
	"github.com/nklarmann/replyagent/internal/core/ports/driven"
	"github.com/nklarmann/replyagent/internal/core/ports/driving"
	"github.com/nklarmann/replyagent/internal/logger"
	"github.com/nklarmann/replyagent/internal/style"
)

// Ensure DraftService implements the interface.
var _ driving.DraftService = (*DraftService)(nil)

const (
	// maxContextChars caps each retrieved body carried into the
	// prompt.
	maxContextChars = 1200

	// maxQueryChars caps the combined retrieval query.
	maxQueryChars = 4000

	// draftTemperature keeps generation close to deterministic.
	draftTemperature = 0.2
)

// baseSystemPrompt anchors every draft on the corpus owner's voice.
const baseSystemPrompt = "You are a drafting assistant for Noah Klarmann. Craft concise, well-structured replies that mirror his tone. " +
	"Only include a single closing line (e.g., “Beste Grüße, Noah”). Do not append signatures, meeting links, or contact blocks."

// cloudBackend names the generation backend whose prompts leave the
// machine and therefore require anonymisation.
const cloudBackend = "openai"

// DraftService generates reply drafts, optionally augmented with
// retrieved past correspondence and style guidance.
type DraftService struct {
	search     driving.SearchService
	llm        driven.LLMService
	anonymiser *anonymiser.Engine
}

// NewDraftService creates a new draft service. The search parameter
// may be nil when only vanilla drafting is needed.
func NewDraftService(search driving.SearchService, llm driven.LLMService) *DraftService {
	return &DraftService{
		search:     search,
		llm:        llm,
		anonymiser: anonymiser.New(),
	}
}

// Draft validates the request, retrieves context in retrieval mode,
// generates a reply and polishes it.
func (s *DraftService) Draft(ctx context.Context, req driving.DraftRequest) (*driving.DraftResult, error) {
	email := strings.TrimSpace(req.Email)
	intent := strings.TrimSpace(req.Intent)
	if email == "" || intent == "" {
		return nil, fmt.Errorf("email and intent are required: %w", domain.ErrInvalidInput)
	}

	mode := req.Mode
	if mode == "" {
		mode = driving.ModeRetrieval
	}

	var sources []domain.Match
	if mode == driving.ModeRetrieval {
		if s.search == nil {
			return nil, fmt.Errorf("retrieval mode needs a search service: %w", domain.ErrInvalidInput)
		}
		combined := truncateRunes(email+"\n\n"+intent, maxQueryChars)
		matches, err := s.search.Search(ctx, combined, 0)
		if err != nil {
			if errors.Is(err, domain.ErrIndexEmpty) {
				return nil, err
			}
			return nil, fmt.Errorf("retrieve context: %w", err)
		}
		sources = matches
	}

	// Cloud prompts carry placeholders instead of personal data. The
	// retrieved correspondence goes through the same mapping table as
	// the email and intent, so identical values share one placeholder
	// and the generated reply is mapped back before it is returned.
	var mappings []domain.Mapping
	promptEmail, promptIntent := email, intent
	promptMatches := sources
	if req.Backend == cloudBackend {
		texts := make([]string, 0, 2+2*len(sources))
		texts = append(texts, email, intent)
		for _, match := range sources {
			texts = append(texts, match.Email.Subject, match.Email.Body)
		}

		anonymised, m := s.anonymiser.AnonymiseTexts(texts...)
		mappings = m
		promptEmail, promptIntent = anonymised[0], anonymised[1]

		promptMatches = make([]domain.Match, len(sources))
		copy(promptMatches, sources)
		for i := range promptMatches {
			promptMatches[i].Email.Subject = anonymised[2+2*i]
			promptMatches[i].Email.Body = anonymised[3+2*i]
		}
		logger.Debug("Anonymised prompt inputs: %d mappings", len(mappings))
	}

	var userPrompt string
	if mode == driving.ModeRetrieval {
		userPrompt = buildUserPrompt(promptEmail, promptIntent, buildContextBlock(promptMatches))
	} else {
		userPrompt = buildVanillaUserPrompt(promptEmail, promptIntent)
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: s.systemPrompt(req)},
		{Role: "user", Content: userPrompt},
	}

	logger.Section("Draft Generation")
	logger.Debug("Mode: %s, backend: %q, model: %s", mode, req.Backend, s.llm.ModelName())

	text, err := s.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: draftTemperature})
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}

	if len(mappings) > 0 {
		text = anonymiser.Deanonymise(text, mappings)
	}

	var extraClosings []string
	if req.StyleGuidance != nil {
		extraClosings = req.StyleGuidance.ClosingExamples
	}
	text = style.Polish(text, extraClosings)

	return &driving.DraftResult{Text: text, Sources: sources}, nil
}

// systemPrompt assembles the system instruction from the base prompt
// plus per-request notes.
func (s *DraftService) systemPrompt(req driving.DraftRequest) string {
	var notes []string
	if req.StyleGuidance != nil {
		notes = append(notes, "Follow these style guidelines:\n"+style.FormatGuidance(req.StyleGuidance))
	}
	switch req.Language {
	case "de":
		notes = append(notes, "Respond in German only.")
	case "en":
		notes = append(notes, "Respond in English only.")
	}
	if req.EnforcedSalutation != "" {
		notes = append(notes, fmt.Sprintf("Begin with this salutation exactly: %q.", req.EnforcedSalutation+","))
	}

	if len(notes) == 0 {
		return baseSystemPrompt
	}
	return baseSystemPrompt + "\n" + strings.Join(notes, "\n")
}

// buildContextBlock renders retrieved matches as numbered context
// sections for the prompt.
func buildContextBlock(matches []domain.Match) string {
	blocks := make([]string, 0, len(matches))
	for i, match := range matches {
		subject := match.Email.Subject
		if subject == "" {
			subject = "Ohne Betreff"
		}
		blocks = append(blocks, fmt.Sprintf("Context %d\nSubject: %s\nCategory: %s\nSimilarity: %.1f%%\nBody:\n%s",
			i+1, subject, match.Email.Category, match.Similarity*100, truncateRunes(match.Email.Body, maxContextChars)))
	}
	return strings.Join(blocks, "\n\n")
}

func buildUserPrompt(email, intent, contextBlock string) string {
	return fmt.Sprintf(`Incoming email:
%s

Response intent:
%s

Relevant past correspondence:
%s

Use the context to stay consistent with prior answers. Reference specific context snippets where helpful (e.g., %s). Keep the reply in the same language as the incoming email.`,
		email, intent, contextBlock, "“Wie bereits im Workshop-Update erwähnt…”")
}

func buildVanillaUserPrompt(email, intent string) string {
	return fmt.Sprintf(`Original Email:
%s

Noah's Response Intent:
%s

Write the full reply in the same language as the email.`, email, intent)
}
