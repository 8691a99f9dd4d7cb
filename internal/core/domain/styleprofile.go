package domain

// PhraseCount is an observed greeting, closing or signature phrase
// with its occurrence count.
type PhraseCount struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// StyleCategoryProfile aggregates writing statistics for one audience
// category. Rates are per email, divided by TotalEmails; categories
// with zero observations are omitted from the profile document
// entirely, so TotalEmails is never zero here.
type StyleCategoryProfile struct {
	TotalEmails         int     `json:"totalEmails"`
	AvgWords            float64 `json:"avgWords"`
	AvgSentenceLength   float64 `json:"avgSentenceLength"`
	InformalPronounRate float64 `json:"informalPronounRate"`
	FormalPronounRate   float64 `json:"formalPronounRate"`
	EmojiRate           float64 `json:"emojiRate"`
	ExclamationRate     float64 `json:"exclamationRate"`

	TopGreetings  []PhraseCount `json:"topGreetings"`
	TopClosings   []PhraseCount `json:"topClosings"`
	TopSignatures []PhraseCount `json:"topSignatures"`

	// ExemplarSubjects holds up to five sample subjects for the category.
	ExemplarSubjects []string `json:"exemplarSubjects"`
}

// StyleProfileDocument is the serialized output of the style profile
// aggregation, consumed at generation time.
type StyleProfileDocument struct {
	// GeneratedAt is the RFC 3339 build timestamp.
	GeneratedAt string `json:"generatedAt"`

	// EmailSampleSize is the number of emails that fed the profile.
	EmailSampleSize int `json:"emailSampleSize"`

	// Categories maps audience categories to their profiles.
	Categories map[AudienceCategory]StyleCategoryProfile `json:"categories"`
}

// StyleGuidance is the per-category drafting guidance derived from a
// profile. It is attached to the generation request.
type StyleGuidance struct {
	Category          AudienceCategory `json:"category"`
	Label             string           `json:"label,omitempty"`
	GreetingExamples  []string         `json:"greetingExamples,omitempty"`
	ClosingExamples   []string         `json:"closingExamples,omitempty"`
	SignatureExamples []string         `json:"signatureExamples,omitempty"`
	PronounPreference string           `json:"pronounPreference,omitempty"`
	ToneTips          string           `json:"toneTips,omitempty"`
	Summary           string           `json:"summary,omitempty"`
}
