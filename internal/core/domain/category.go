package domain

// AudienceCategory is the inferred relationship context of a
// correspondence. The enumeration is closed: every email and every
// live query is assigned exactly one of the three values.
type AudienceCategory string

// The three audience categories.
const (
	// CategoryStudents covers enrolled students and applicants.
	CategoryStudents AudienceCategory = "students"

	// CategoryColleagues covers faculty colleagues and internal staff.
	CategoryColleagues AudienceCategory = "colleagues"

	// CategoryIndustry covers companies, research partners and other
	// external contacts.
	CategoryIndustry AudienceCategory = "industry"
)

// Valid reports whether c is one of the three known categories.
func (c AudienceCategory) Valid() bool {
	switch c {
	case CategoryStudents, CategoryColleagues, CategoryIndustry:
		return true
	}
	return false
}

// AllCategories lists the categories in their canonical order.
func AllCategories() []AudienceCategory {
	return []AudienceCategory{CategoryStudents, CategoryColleagues, CategoryIndustry}
}
