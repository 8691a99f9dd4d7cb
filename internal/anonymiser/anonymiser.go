// Package anonymiser detects personally identifying spans in text and
// deterministically replaces them with numbered placeholders, keeping
// a reversible mapping table so the replacement can be undone exactly.
//
// Anonymisation runs before any text leaves the machine for a cloud
// generation backend; de-anonymisation restores the original values in
// the generated reply.
package anonymiser

import (
	"fmt"
	"strings"

	"github.com/nklarmann/replyagent/internal/core/domain"
	"github.com/nklarmann/replyagent/internal/core/ports/driven"
)

// Result is the outcome of one anonymisation run.
type Result struct {
	// AnonymisedText is the input with every detected span replaced
	// by its placeholder.
	AnonymisedText string `json:"anonymizedText"`

	// Mappings lists the replacements in first-seen order.
	Mappings []domain.Mapping `json:"mappings"`

	// PreservedTerms is the fixed allow-list that was protected.
	PreservedTerms []string `json:"preservedTerms"`
}

// Engine applies a fixed sequence of entity recognizers to build a
// forward text transform and its reversible mapping table.
//
// Placeholder ordinals are scoped to a single Anonymise call, so
// concurrent calls cannot race on them.
type Engine struct {
	recognizers []driven.Recognizer
}

// New creates an engine with the default regex recognizers.
func New() *Engine {
	return &Engine{recognizers: DefaultRecognizers()}
}

// NewWithRecognizers creates an engine with a custom recognizer
// sequence. Recognizers run in the given order.
func NewWithRecognizers(recognizers ...driven.Recognizer) *Engine {
	return &Engine{recognizers: recognizers}
}

// mappingKey identifies one replaced value within a run.
type mappingKey struct {
	entityType domain.EntityType
	value      string
}

// Anonymise replaces every detected span with a numbered placeholder.
//
// A given (value, type) pair maps to exactly one placeholder, reused
// on repeated occurrence; ordinals are numbered per type starting at 1
// in first-seen order. Empty or whitespace-only input yields an empty
// result with no mappings. Anonymise never fails for well-formed
// string input.
func (e *Engine) Anonymise(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{
			AnonymisedText: "",
			Mappings:       []domain.Mapping{},
			PreservedTerms: PreservedTerms(),
		}
	}

	anonymised, mappings := e.AnonymiseTexts(text)
	return Result{
		AnonymisedText: anonymised[0],
		Mappings:       mappings,
		PreservedTerms: PreservedTerms(),
	}
}

// AnonymiseTexts anonymises several related texts against one shared
// mapping table, so the same value receives the same placeholder in
// every text. Ordinals are numbered per type across all texts, in
// recognizer order and first-seen order within it. The returned slice
// is parallel to the input.
func (e *Engine) AnonymiseTexts(texts ...string) ([]string, []domain.Mapping) {
	out := make([]string, len(texts))
	copy(out, texts)

	seen := make(map[mappingKey]string)
	mappings := []domain.Mapping{}

	for _, rec := range e.recognizers {
		ordinal := 1
		for i := range out {
			out[i] = rec.Replace(out[i], func(match string) string {
				key := mappingKey{rec.Type(), match}
				if placeholder, ok := seen[key]; ok {
					return placeholder
				}

				placeholder := fmt.Sprintf("[%s_%d]", rec.Prefix(), ordinal)
				ordinal++
				seen[key] = placeholder
				mappings = append(mappings, domain.Mapping{
					Type:          rec.Type(),
					Placeholder:   placeholder,
					OriginalValue: match,
				})
				return placeholder
			})
		}
	}

	return out, mappings
}

// Deanonymise replaces every placeholder occurrence with its original
// value. Placeholders are syntactically disjoint tokens, so the
// application order of the mappings does not matter. Placeholders
// without a mapping are left untouched.
func Deanonymise(text string, mappings []domain.Mapping) string {
	if strings.TrimSpace(text) == "" || len(mappings) == 0 {
		return text
	}

	for _, m := range mappings {
		text = strings.ReplaceAll(text, m.Placeholder, m.OriginalValue)
	}
	return text
}
