// Package style builds and consumes per-audience style profiles:
// offline aggregation of writing statistics, drafting guidance derived
// from a profile, and post-processing of generated replies.
package style

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/nklarmann/replyagent/internal/classifier"
	"github.com/nklarmann/replyagent/internal/core/domain"
)

// Phrase detection anchors and counting patterns.
var (
	greetingPattern = regexp.MustCompile(`(?i)^(hallo|hi|hey|liebe|lieber|liebes|guten|moin|servus|dear|hello)\b`)

	closingPattern = regexp.MustCompile(`(?i)\b(viele grüße|vielen dank|beste grüße|best regards|kind regards|cheers|lg|liebe grüße|herzliche grüße)\b`)

	// emojiPattern covers the common emoji blocks plus the
	// miscellaneous-symbols and dingbats ranges.
	emojiPattern = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]`)

	// quotedHeaderPattern spots header remnants from quoted replies.
	quotedHeaderPattern = regexp.MustCompile(`(?i)^(an|from|to|cc|betreff|subject|gesendet)\b`)

	signaturePattern = regexp.MustCompile(`(?i)prof\.?.*klarmann`)

	wordStripPattern     = regexp.MustCompile(`(?i)[^a-zäöüß0-9\s]`)
	sentenceSplitPattern = regexp.MustCompile(`[.!?]+`)
)

// topPhraseLimit caps the ranked phrase lists in the profile.
const topPhraseLimit = 5

// maxExemplarSubjects caps the sample subjects kept per category.
const maxExemplarSubjects = 5

// phraseCounter counts phrases while remembering first-seen order,
// so frequency ties rank by first occurrence.
type phraseCounter struct {
	counts map[string]int
	order  []string
}

func newPhraseCounter() *phraseCounter {
	return &phraseCounter{counts: make(map[string]int)}
}

func (p *phraseCounter) add(phrase string) {
	if _, ok := p.counts[phrase]; !ok {
		p.order = append(p.order, phrase)
	}
	p.counts[phrase]++
}

// top returns the most frequent phrases, ties broken by first-seen
// order, capped at limit.
func (p *phraseCounter) top(limit int) []domain.PhraseCount {
	ranked := make([]string, len(p.order))
	copy(ranked, p.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return p.counts[ranked[i]] > p.counts[ranked[j]]
	})

	if limit < len(ranked) {
		ranked = ranked[:limit]
	}

	out := make([]domain.PhraseCount, 0, len(ranked))
	for _, phrase := range ranked {
		out = append(out, domain.PhraseCount{Text: phrase, Count: p.counts[phrase]})
	}
	return out
}

// categoryAccumulator folds the running statistics for one category.
type categoryAccumulator struct {
	totalEmails      int
	totalWords       int
	totalSentences   int
	informalPronouns int
	formalPronouns   int
	emojiCount       int
	exclamationCount int

	greetings  *phraseCounter
	closings   *phraseCounter
	signatures *phraseCounter

	exemplarSubjects []string
}

func newCategoryAccumulator() *categoryAccumulator {
	return &categoryAccumulator{
		greetings:  newPhraseCounter(),
		closings:   newPhraseCounter(),
		signatures: newPhraseCounter(),
	}
}

// Aggregator folds corpus emails into per-category style statistics.
// Emails are processed sequentially, one at a time.
type Aggregator struct {
	stats     map[domain.AudienceCategory]*categoryAccumulator
	processed int
}

// NewAggregator creates an empty aggregator with accumulators for all
// three categories.
func NewAggregator() *Aggregator {
	stats := make(map[domain.AudienceCategory]*categoryAccumulator)
	for _, category := range domain.AllCategories() {
		stats[category] = newCategoryAccumulator()
	}
	return &Aggregator{stats: stats}
}

// Processed returns the number of emails folded so far.
func (a *Aggregator) Processed() int {
	return a.processed
}

// Add folds one email into the statistics of its category.
func (a *Aggregator) Add(email *domain.Email, category domain.AudienceCategory) {
	acc, ok := a.stats[category]
	if !ok {
		return
	}

	a.processed++
	acc.totalEmails++

	body := email.SanitizedBody
	words := tokenizeWords(body)
	sentences := splitSentences(body)

	acc.totalWords += len(words)
	acc.totalSentences += max(1, len(sentences))

	pronouns := classifier.CountPronouns(body)
	acc.informalPronouns += pronouns.Informal
	acc.formalPronouns += pronouns.Formal
	acc.emojiCount += len(emojiPattern.FindAllString(body, -1))
	acc.exclamationCount += strings.Count(body, "!")

	if greeting := DetectGreeting(body); greeting != "" {
		acc.greetings.add(greeting)
	}
	if closing := DetectClosing(body); closing != "" {
		acc.closings.add(closing)
	}
	if signature := DetectSignature(body); signature != "" {
		acc.signatures.add(signature)
	}

	if len(acc.exemplarSubjects) < maxExemplarSubjects && email.Subject != "" {
		acc.exemplarSubjects = append(acc.exemplarSubjects, email.Subject)
	}
}

// Snapshot produces the profile document. Categories without any
// observed email are omitted entirely, so every emitted rate has a
// non-zero divisor.
func (a *Aggregator) Snapshot(generatedAt time.Time) *domain.StyleProfileDocument {
	doc := &domain.StyleProfileDocument{
		GeneratedAt:     generatedAt.UTC().Format(time.RFC3339),
		EmailSampleSize: a.processed,
		Categories:      make(map[domain.AudienceCategory]domain.StyleCategoryProfile),
	}

	for _, category := range domain.AllCategories() {
		acc := a.stats[category]
		if acc.totalEmails == 0 {
			continue
		}

		emails := float64(acc.totalEmails)
		doc.Categories[category] = domain.StyleCategoryProfile{
			TotalEmails:         acc.totalEmails,
			AvgWords:            round2(float64(acc.totalWords) / emails),
			AvgSentenceLength:   round2(float64(acc.totalWords) / float64(acc.totalSentences)),
			InformalPronounRate: round2(float64(acc.informalPronouns) / emails),
			FormalPronounRate:   round2(float64(acc.formalPronouns) / emails),
			EmojiRate:           round2(float64(acc.emojiCount) / emails),
			ExclamationRate:     round2(float64(acc.exclamationCount) / emails),
			TopGreetings:        acc.greetings.top(topPhraseLimit),
			TopClosings:         acc.closings.top(topPhraseLimit),
			TopSignatures:       acc.signatures.top(topPhraseLimit),
			ExemplarSubjects:    acc.exemplarSubjects,
		}
	}

	return doc
}

// DetectGreeting scans at most the first six non-empty lines for a
// greeting anchor and returns the phrase up to the first comma or
// exclamation mark.
func DetectGreeting(body string) string {
	seen := 0
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > 6 {
			break
		}
		if len(line) > 80 {
			continue
		}
		if greetingPattern.MatchString(line) {
			phrase := line
			if idx := strings.IndexAny(phrase, ",!"); idx >= 0 {
				phrase = phrase[:idx]
			}
			return normalizeCase(strings.TrimSpace(phrase))
		}
	}
	return ""
}

// DetectClosing scans backward from the last non-empty line, with a
// look-back of five lines, skipping quoted-header remnants.
func DetectClosing(body string) string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines)-i > 5 {
			break
		}
		line := lines[i]
		if quotedHeaderPattern.MatchString(line) {
			continue
		}
		if len(line) > 80 {
			continue
		}
		if closingPattern.MatchString(line) {
			return normalizeCase(line)
		}
	}
	return ""
}

// DetectSignature scans backward up to six lines for the corpus
// owner's signature line.
func DetectSignature(body string) string {
	lines := strings.Split(body, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines)-i > 6 {
			break
		}
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if quotedHeaderPattern.MatchString(line) {
			continue
		}
		if strings.Contains(strings.ToLower(line), "noah") || signaturePattern.MatchString(line) {
			return normalizeCase(line)
		}
	}
	return ""
}

// tokenizeWords lowercases and splits a body into plain words.
func tokenizeWords(text string) []string {
	cleaned := wordStripPattern.ReplaceAllString(strings.ToLower(text), " ")
	return strings.Fields(cleaned)
}

// splitSentences splits on sentence punctuation, dropping blanks.
func splitSentences(text string) []string {
	parts := sentenceSplitPattern.Split(text, -1)
	var sentences []string
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			sentences = append(sentences, strings.TrimSpace(part))
		}
	}
	return sentences
}

// normalizeCase upper-cases the first rune of a phrase.
func normalizeCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// round2 rounds to two decimal places; non-finite values become 0.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
