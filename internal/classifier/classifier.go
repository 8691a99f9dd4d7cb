// Package classifier assigns each email to one of the three audience
// categories via a deterministic rule-then-statistics cascade:
// keyword signals first, then a pronoun-frequency tiebreak over the
// sanitized body.
//
// The keyword sets and patterns are immutable package-level values;
// classification is a pure function of its input.
package classifier

import (
	"regexp"
	"strings"

	"github.com/nklarmann/replyagent/internal/core/domain"
)

// studentKeywords signal correspondence with students: enrolment,
// coursework, theses, examinations.
var studentKeywords = []string{
	"studierende",
	"studierenden",
	"student",
	"studentin",
	"studenten",
	"studium",
	"semester",
	"klausur",
	"vorlesung",
	"lehrveranstaltung",
	"ects",
	"campus",
	"thesis",
	"abschlussarbeit",
	"praktikum",
	"prüfung",
	"noten",
	"bewertung",
	"einschreibung",
	"immatrikulation",
	"exmatrikulation",
	"betreuungsanfrage",
	"projektarbeit",
	"modul",
	"lehre",
}

// industryKeywords signal external companies and research partners.
var industryKeywords = []string{
	"angebot",
	"vertrag",
	"partner",
	"industrie",
	"unternehmen",
	"firma",
	"gmbh",
	"ag",
	"startup",
	"kooperation",
	"nda",
	"kunde",
	"kunden",
	"lieferant",
	"sponsor",
	"investor",
}

// colleagueKeywords signal internal faculty correspondence. These are
// also checked against the recipient header line.
var colleagueKeywords = []string{
	"kollege",
	"kollegin",
	"kollegen",
	"team",
	"fakultät",
	"hochschule",
	"wi ",
	"prof.",
	"prof ",
	"gremium",
	"lehrstuhl",
	"mentoring",
	"mentoren",
}

var (
	// legalSuffixPattern matches legal entity suffixes as whole words.
	legalSuffixPattern = regexp.MustCompile(`(?i)\b(gmbh|ag|kg|ug|inc|llc|corp|ltd)\b`)

	// ndaPattern matches the non-disclosure-agreement token.
	ndaPattern = regexp.MustCompile(`(?i)\bnda\b`)

	// studierendePattern matches morphological variants of
	// "studierende".
	studierendePattern = regexp.MustCompile(`(?i)\bstudierende[nr]?\b`)

	// departmentPrefixPattern matches department codes like "wi-".
	departmentPrefixPattern = regexp.MustCompile(`\bwi-`)

	// informalPronounPattern matches du/dich/dir/dein forms. German
	// informal pronouns are not capitalized, so matching is
	// case-insensitive.
	informalPronounPattern = regexp.MustCompile(`(?i)\b(du|dich|dir|dein(e|er|en)?)\b`)

	// formalPronounPattern matches Sie/Ihnen/Ihr forms. The formal
	// pronouns are capitalized in German grammar, so matching is
	// case-sensitive to avoid counting the ordinary "sie".
	formalPronounPattern = regexp.MustCompile(`\b(Sie|Ihnen|Ihr(e|en)?)\b`)
)

// PronounStats counts informal and formal address pronouns in a text.
type PronounStats struct {
	Informal int
	Formal   int
}

// CountPronouns returns the pronoun statistics for a sanitized body.
func CountPronouns(text string) PronounStats {
	return PronounStats{
		Informal: len(informalPronounPattern.FindAllString(text, -1)),
		Formal:   len(formalPronounPattern.FindAllString(text, -1)),
	}
}

// Classify assigns an email to exactly one audience category. The
// cascade is total: it always produces a category, falling back to
// students when no signal fires. Both the offline aggregation path
// and the live query path share this single fallback.
func Classify(email domain.Email) domain.AudienceCategory {
	text := strings.ToLower(email.Subject + "\n" + email.Body)
	toLine := strings.ToLower(email.To)

	if hasIndustrySignals(text) {
		return domain.CategoryIndustry
	}

	if hasStudentSignals(text) {
		return domain.CategoryStudents
	}

	if hasColleagueSignals(text, toLine) {
		return domain.CategoryColleagues
	}

	stats := CountPronouns(email.SanitizedBody)
	if stats.Informal > stats.Formal {
		return domain.CategoryColleagues
	}
	if stats.Formal > 0 {
		return domain.CategoryStudents
	}

	return domain.CategoryStudents
}

// ClassifyText classifies free text with no header context, as used
// for live queries.
func ClassifyText(text string) domain.AudienceCategory {
	return Classify(domain.Email{Body: text, SanitizedBody: text})
}

func hasIndustrySignals(text string) bool {
	return containsAny(text, industryKeywords) ||
		legalSuffixPattern.MatchString(text) ||
		ndaPattern.MatchString(text)
}

func hasStudentSignals(text string) bool {
	return containsAny(text, studentKeywords) || studierendePattern.MatchString(text)
}

func hasColleagueSignals(text, toLine string) bool {
	return containsAny(text, colleagueKeywords) ||
		containsAny(toLine, colleagueKeywords) ||
		departmentPrefixPattern.MatchString(toLine)
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
