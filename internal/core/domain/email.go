package domain

// Email is a parsed corpus message after normalisation.
// It is the canonical input to classification, embedding and
// style aggregation.
type Email struct {
	// ID is the stable identifier, taken from the frontmatter or the
	// source filename.
	ID string

	// Subject is the message subject, if present.
	Subject string

	// Direction marks the message as "sent" or "received" relative to
	// the corpus owner.
	Direction string

	// From and To are the raw header values.
	From string
	To   string

	// Date is the header date line; RawDate is the frontmatter date.
	Date    string
	RawDate string

	// Path is the source file location.
	Path string

	// Body is the message body with header lines removed.
	Body string

	// SanitizedBody is Body with markdown and quoting artifacts
	// stripped. Downstream components consume this, never Body.
	SanitizedBody string

	// Metadata holds the remaining frontmatter key-value pairs.
	Metadata map[string]string
}
