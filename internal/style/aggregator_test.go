package style

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nklarmann/replyagent/internal/core/domain"
)

func sampleEmail(subject, body string) *domain.Email {
	return &domain.Email{
		Subject:       subject,
		Body:          body,
		SanitizedBody: body,
	}
}

func TestAggregator_EmptySnapshotOmitsCategories(t *testing.T) {
	agg := NewAggregator()

	doc := agg.Snapshot(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, "2025-06-01T12:00:00Z", doc.GeneratedAt)
	assert.Zero(t, doc.EmailSampleSize)
	assert.Empty(t, doc.Categories)
}

func TestAggregator_FoldsBasicStats(t *testing.T) {
	agg := NewAggregator()

	agg.Add(sampleEmail("Thema A", "Hallo zusammen!\n\nKannst du das prüfen? Danke dir.\n\nViele Grüße,\nNoah"), domain.CategoryColleagues)
	agg.Add(sampleEmail("Thema B", "Hallo,\n\nbitte melden Sie sich morgen.\n\nViele Grüße,\nNoah"), domain.CategoryColleagues)

	doc := agg.Snapshot(time.Now())
	require.Contains(t, doc.Categories, domain.CategoryColleagues)
	profile := doc.Categories[domain.CategoryColleagues]

	assert.Equal(t, 2, profile.TotalEmails)
	assert.Equal(t, 2, doc.EmailSampleSize)
	assert.Greater(t, profile.AvgWords, 0.0)
	assert.Greater(t, profile.AvgSentenceLength, 0.0)
	assert.Equal(t, 0.5, profile.ExclamationRate)
	assert.Equal(t, []string{"Thema A", "Thema B"}, profile.ExemplarSubjects)

	require.NotEmpty(t, profile.TopGreetings)
	assert.Equal(t, "Hallo zusammen", profile.TopGreetings[0].Text)
	require.NotEmpty(t, profile.TopClosings)
	assert.Equal(t, "Viele Grüße,", profile.TopClosings[0].Text)
	assert.Equal(t, 2, profile.TopClosings[0].Count)
}

func TestAggregator_PronounRates(t *testing.T) {
	agg := NewAggregator()
	agg.Add(sampleEmail("", "Kannst du mir das schicken? Ich danke dir."), domain.CategoryColleagues)

	profile := agg.Snapshot(time.Now()).Categories[domain.CategoryColleagues]

	// du + dir informal, no formal pronouns.
	assert.Equal(t, 2.0, profile.InformalPronounRate)
	assert.Equal(t, 0.0, profile.FormalPronounRate)
}

func TestAggregator_AvgSentenceLengthWithoutPunctuation(t *testing.T) {
	agg := NewAggregator()
	agg.Add(sampleEmail("", "kein satzende"), domain.CategoryStudents)

	profile := agg.Snapshot(time.Now()).Categories[domain.CategoryStudents]
	assert.Equal(t, 2.0, profile.AvgSentenceLength)
}

func TestAggregator_EmojiRate(t *testing.T) {
	agg := NewAggregator()
	agg.Add(sampleEmail("", "Super Idee \U0001F600 \U0001F680"), domain.CategoryColleagues)

	profile := agg.Snapshot(time.Now()).Categories[domain.CategoryColleagues]
	assert.Equal(t, 2.0, profile.EmojiRate)
}

func TestPhraseCounter_TiesKeepFirstSeenOrder(t *testing.T) {
	counter := newPhraseCounter()
	counter.add("Viele Grüße")
	counter.add("Beste Grüße")
	counter.add("Herzliche Grüße")
	counter.add("Beste Grüße")

	top := counter.top(2)
	require.Len(t, top, 2)
	assert.Equal(t, domain.PhraseCount{Text: "Beste Grüße", Count: 2}, top[0])
	assert.Equal(t, domain.PhraseCount{Text: "Viele Grüße", Count: 1}, top[1])
}

func TestDetectGreeting(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"simple", "Hallo Team,\nwie besprochen.", "Hallo Team"},
		{"skips leading blanks", "\n\n\nGuten Morgen!\nText.", "Guten Morgen"},
		{"none", "Anbei die Unterlagen.", ""},
		{"beyond six non-empty lines", "a\nb\nc\nd\ne\nf\nHallo spät", ""},
		{"long line skipped", "Hallo " + strings.Repeat("x", 100) + "\nMoin Moin,\nText", "Moin Moin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectGreeting(tt.body))
		})
	}
}

func TestDetectClosing(t *testing.T) {
	assert.Equal(t, "Viele Grüße aus München", DetectClosing("Text oben.\n\nviele Grüße aus München\nNoah"))
	assert.Equal(t, "", DetectClosing("Nur Fließtext ohne Schluss."))
	// Quoted header remnants at the end are skipped.
	assert.Equal(t, "Beste Grüße", DetectClosing("Inhalt.\n\nbeste Grüße\nGesendet: Montag"))
}

func TestDetectClosing_LookBackCapped(t *testing.T) {
	body := "Viele Grüße\nz1\nz2\nz3\nz4\nz5\nz6"
	assert.Equal(t, "", DetectClosing(body))
}

func TestDetectSignature(t *testing.T) {
	assert.Equal(t, "Noah", DetectSignature("Text.\n\nViele Grüße,\nnoah"))
	assert.Equal(t, "Prof. Dr. Klarmann", DetectSignature("Text.\n\nMit freundlichen Grüßen,\nprof. Dr. Klarmann"))
	assert.Equal(t, "", DetectSignature("Text ohne Unterschrift."))
}

func TestSnapshot_RatesDividedByCategoryTotals(t *testing.T) {
	agg := NewAggregator()
	agg.Add(sampleEmail("", "Eins! Zwei!"), domain.CategoryIndustry)
	agg.Add(sampleEmail("", "Drei!"), domain.CategoryIndustry)
	agg.Add(sampleEmail("", "Ohne Ausruf."), domain.CategoryStudents)

	doc := agg.Snapshot(time.Now())
	assert.Equal(t, 1.5, doc.Categories[domain.CategoryIndustry].ExclamationRate)
	assert.Equal(t, 0.0, doc.Categories[domain.CategoryStudents].ExclamationRate)
	assert.NotContains(t, doc.Categories, domain.CategoryColleagues)
}
