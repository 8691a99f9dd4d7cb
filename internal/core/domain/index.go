package domain

// IndexedEmail is one record of the serialized email index.
// The index file is line-delimited JSON, one record per line, with
// the embedding stored unnormalised; Norm is computed at load time.
type IndexedEmail struct {
	// ID is the corpus identifier of the email.
	ID string `json:"id"`

	// Subject is the message subject, if present.
	Subject string `json:"subject,omitempty"`

	// Preview is a short single-line excerpt of the body.
	Preview string `json:"preview,omitempty"`

	// Category is the audience category assigned at index build time.
	Category AudienceCategory `json:"category"`

	// Direction marks the message as sent or received.
	Direction string `json:"direction,omitempty"`

	// Date is the message date, if known.
	Date string `json:"date,omitempty"`

	// To and From are the header values carried through from the corpus.
	To   string `json:"to,omitempty"`
	From string `json:"from,omitempty"`

	// Path is the corpus-relative source file location.
	Path string `json:"path,omitempty"`

	// Body is the sanitized message body.
	Body string `json:"body"`

	// Embedding is the precomputed vector for the record.
	Embedding []float32 `json:"embedding"`

	// TextLength is the length of the text that was embedded.
	TextLength int `json:"textLength,omitempty"`

	// Norm is the Euclidean norm of Embedding, precomputed once at
	// load time. A zero or missing embedding yields Norm = 1 so that
	// zero vectors contribute zero similarity instead of dividing by
	// zero. Not serialized.
	Norm float64 `json:"-"`
}

// Match pairs an indexed email with its similarity to a query.
type Match struct {
	// Email is the matched record.
	Email IndexedEmail

	// Similarity is the cosine similarity score in [-1, 1].
	Similarity float64
}
