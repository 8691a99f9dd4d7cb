package style

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nklarmann/replyagent/internal/core/domain"
)

// categoryLabels are the human-readable audience descriptions used in
// the drafting prompt.
var categoryLabels = map[domain.AudienceCategory]string{
	domain.CategoryStudents:   "students (per Sie)",
	domain.CategoryColleagues: "colleagues (per Du)",
	domain.CategoryIndustry:   "industry or research partners",
}

var (
	dearPrefixPattern     = regexp.MustCompile(`(?i)^dear`)
	englishClosingPattern = regexp.MustCompile(`(?i)\b(best|kind)\b`)
)

// maxExamplePhrases caps the example lists handed to the prompt.
const maxExamplePhrases = 3

// Guidance derives drafting guidance for a category from a profile
// document. A category absent from the document yields minimal
// guidance with the label only.
func Guidance(category domain.AudienceCategory, doc *domain.StyleProfileDocument) domain.StyleGuidance {
	var profile domain.StyleCategoryProfile
	if doc != nil {
		profile = doc.Categories[category]
	}

	greetings := dedupeTexts(profile.TopGreetings, maxExamplePhrases)
	if category == domain.CategoryStudents {
		// Student correspondence is German; drop English greetings.
		greetings = filterOut(greetings, dearPrefixPattern)
	}

	closings := dedupeTexts(profile.TopClosings, maxExamplePhrases)
	if category != domain.CategoryIndustry {
		closings = filterOut(closings, englishClosingPattern)
	}

	signatures := dedupeTexts(profile.TopSignatures, maxExamplePhrases)

	pronounPreference := "mixed"
	switch {
	case profile.FormalPronounRate > profile.InformalPronounRate:
		pronounPreference = "formal"
	case profile.InformalPronounRate > profile.FormalPronounRate:
		pronounPreference = "informal"
	}

	return domain.StyleGuidance{
		Category:          category,
		Label:             categoryLabels[category],
		GreetingExamples:  greetings,
		ClosingExamples:   closings,
		SignatureExamples: signatures,
		PronounPreference: pronounPreference,
		ToneTips:          toneTips(pronounPreference, profile),
		Summary:           profileSummary(profile),
	}
}

// FormatGuidance renders guidance as prompt lines; empty fields are
// omitted.
func FormatGuidance(g *domain.StyleGuidance) string {
	if g == nil {
		return ""
	}

	var parts []string
	if g.Label != "" {
		parts = append(parts, "Audience: "+g.Label)
	}
	if g.PronounPreference != "" {
		parts = append(parts, "Preferred pronouns: "+g.PronounPreference)
	}
	if len(g.GreetingExamples) > 0 {
		parts = append(parts, "Use greetings such as: "+strings.Join(g.GreetingExamples, ", "))
	}
	if len(g.ClosingExamples) > 0 {
		parts = append(parts, "Use closings such as: "+strings.Join(g.ClosingExamples, ", "))
	}
	if len(g.SignatureExamples) > 0 {
		parts = append(parts, "Reference signatures like: "+strings.Join(g.SignatureExamples, ", "))
	}
	if g.ToneTips != "" {
		parts = append(parts, g.ToneTips)
	}
	if g.Summary != "" {
		parts = append(parts, g.Summary)
	}
	return strings.Join(parts, "\n")
}

func toneTips(pronounPreference string, profile domain.StyleCategoryProfile) string {
	var tips []string

	switch pronounPreference {
	case "formal":
		tips = append(tips, "Use courteous Sie/Ihnen forms and keep the tone structured.")
	case "informal":
		tips = append(tips, "Use Du-friendly, collaborative language.")
	default:
		tips = append(tips, "Balance professionalism with approachable language.")
	}

	if profile.ExclamationRate > 0.5 {
		tips = append(tips, "Occasional exclamation points are acceptable.")
	} else {
		tips = append(tips, "Keep punctuation calm.")
	}

	if profile.EmojiRate > 0.2 {
		tips = append(tips, "Light emoji use is acceptable.")
	} else {
		tips = append(tips, "Avoid emoji for this audience.")
	}

	return strings.Join(tips, " ")
}

func profileSummary(profile domain.StyleCategoryProfile) string {
	avgWords := "n/a"
	if profile.AvgWords > 0 {
		avgWords = fmt.Sprintf("%g", profile.AvgWords)
	}
	avgSentence := "n/a"
	if profile.AvgSentenceLength > 0 {
		avgSentence = fmt.Sprintf("%g", profile.AvgSentenceLength)
	}
	return fmt.Sprintf("Avg words: %s | Avg sentence length: %s", avgWords, avgSentence)
}

// dedupeTexts extracts the distinct phrase texts, preserving rank
// order, capped at limit.
func dedupeTexts(entries []domain.PhraseCount, limit int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, entry := range entries {
		text := strings.TrimSpace(entry.Text)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		out = append(out, text)
		if len(out) == limit {
			break
		}
	}
	return out
}

func filterOut(texts []string, pattern *regexp.Regexp) []string {
	var out []string
	for _, text := range texts {
		if !pattern.MatchString(text) {
			out = append(out, text)
		}
	}
	return out
}
