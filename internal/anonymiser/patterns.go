package anonymiser

import (
	"regexp"
	"strings"

	"github.com/nklarmann/replyagent/internal/core/domain"
	"github.com/nklarmann/replyagent/internal/core/ports/driven"
)

// Ensure regexRecognizer implements the interface.
var _ driven.Recognizer = (*regexRecognizer)(nil)

// preservedFullNames are never captured into a mapping, regardless of
// which recognizer matches them. The corpus owner's own name must
// survive anonymisation verbatim so the drafting prompt stays intact.
var preservedFullNames = []string{"Noah Klarmann"}

// preservedNamePattern matches any preserved full name, tolerating
// repeated whitespace between the parts.
var preservedNamePattern = regexp.MustCompile(`(?i)Noah\s+Klarmann`)

// greetingWords are salutation openers. A two-word name match whose
// first word is one of these is a greeting, not a person ("Hi John").
var greetingWords = map[string]bool{
	"Hi":    true,
	"Hello": true,
	"Dear":  true,
}

var (
	// companyPattern: capitalized word sequence followed by a legal
	// suffix token.
	companyPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s[A-Z][a-z]+)*\s(?:Inc|LLC|Ltd|GmbH|Corp|Corporation)\b`)

	// namePattern: exactly two consecutive capitalized words.
	namePattern = regexp.MustCompile(`\b[A-Z][a-z]+\s[A-Z][a-z]+\b`)

	// emailPattern: local@domain.tld with a top-level label of at
	// least two letters.
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// phonePattern: optional country code, then NANP-style digit
	// groups with space/dot/dash separators and optional parentheses
	// around the first group.
	phonePattern = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
)

// regexRecognizer detects spans of one entity type via a compiled
// pattern, with an optional skip predicate for false positives.
type regexRecognizer struct {
	entityType domain.EntityType
	prefix     string
	re         *regexp.Regexp
	skip       func(match string) bool
}

// Type returns the entity type this recognizer detects.
func (r *regexRecognizer) Type() domain.EntityType {
	return r.entityType
}

// Prefix returns the placeholder prefix for this entity type.
func (r *regexRecognizer) Prefix() string {
	return r.prefix
}

// Replace rewrites every non-skipped match in text using repl.
// Matches containing a preserved name are left untouched regardless
// of entity type, so a company or phone span can never swallow the
// corpus owner's name into a mapping.
func (r *regexRecognizer) Replace(text string, repl func(match string) string) string {
	return r.re.ReplaceAllStringFunc(text, func(match string) string {
		if preservedNamePattern.MatchString(match) {
			return match
		}
		if r.skip != nil && r.skip(match) {
			return match
		}
		return repl(match)
	})
}

// skipName drops a two-word match whose first word is a greeting
// opener ("Hi John").
func skipName(match string) bool {
	first := strings.Fields(strings.TrimSpace(match))[0]
	return greetingWords[first]
}

// DefaultRecognizers returns the regex recognizers in their fixed
// replacement order: company, name, email, phone. The order matters:
// each type scans the working text after earlier types have already
// substituted their placeholders, so a token consumed by an earlier
// type is no longer visible to a later one.
func DefaultRecognizers() []driven.Recognizer {
	return []driven.Recognizer{
		&regexRecognizer{entityType: domain.EntityCompany, prefix: "COMPANY", re: companyPattern},
		&regexRecognizer{entityType: domain.EntityName, prefix: "PERSON", re: namePattern, skip: skipName},
		&regexRecognizer{entityType: domain.EntityEmail, prefix: "EMAIL", re: emailPattern},
		&regexRecognizer{entityType: domain.EntityPhone, prefix: "PHONE", re: phonePattern},
	}
}

// PreservedTerms returns a copy of the protected allow-list.
func PreservedTerms() []string {
	terms := make([]string, len(preservedFullNames))
	copy(terms, preservedFullNames)
	return terms
}
