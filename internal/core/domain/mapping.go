package domain

// EntityType classifies a detected personal-data span.
type EntityType string

// Supported entity types, in their fixed replacement order.
const (
	EntityCompany EntityType = "company"
	EntityName    EntityType = "name"
	EntityEmail   EntityType = "email"
	EntityPhone   EntityType = "phone"
)

// Mapping links a placeholder back to the original text span it
// replaced. Within one anonymisation run a given (value, type) pair
// maps to exactly one placeholder, reused on repeated occurrence.
// Mappings are created fresh per run and never persisted.
type Mapping struct {
	// Type is the entity type of the replaced span.
	Type EntityType `json:"type"`

	// Placeholder is the synthetic token, e.g. "[PERSON_1]".
	Placeholder string `json:"placeholder"`

	// OriginalValue is the exact text that was replaced.
	OriginalValue string `json:"originalValue"`
}
