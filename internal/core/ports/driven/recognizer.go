package driven

import "github.com/nklarmann/replyagent/internal/core/domain"

// Recognizer detects personal-data spans of one entity type in text.
//
// The anonymisation engine only depends on this capability, so
// statistical or NER-based recognizers can be substituted for the
// regex implementations without touching the mapping logic.
type Recognizer interface {
	// Type returns the entity type this recognizer detects.
	Type() domain.EntityType

	// Prefix returns the placeholder prefix, e.g. "PERSON".
	Prefix() string

	// Replace rewrites every non-skipped match in text using repl and
	// returns the result. Matches are non-overlapping, left to right.
	Replace(text string, repl func(match string) string) string
}
