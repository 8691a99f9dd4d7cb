package style

import "strings"

// defaultClosings are the recognized multilingual sign-off phrases.
// The polisher cuts everything after the last line starting with one
// of these, which stops models from appending duplicated signatures
// or contact blocks.
var defaultClosings = []string{
	"Beste Grüße",
	"Viele Grüße",
	"Liebe Grüße",
	"Mit freundlichen Grüßen",
	"Herzliche Grüße",
	"Danke und viele Grüße",
	"Danke, viele Grüße",
	"Best regards",
	"Kind regards",
	"Regards",
	"Cheers",
}

// Polish trims a generated reply after its last recognized closing
// line. extraClosings supplements the fixed list, typically with the
// profile's observed closings. Text without any closing line is only
// whitespace-trimmed.
func Polish(text string, extraClosings []string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	variants := make(map[string]bool)
	for _, closing := range append(append([]string{}, extraClosings...), defaultClosings...) {
		closing = strings.ToLower(strings.TrimSpace(closing))
		if closing != "" {
			variants[closing] = true
		}
	}

	lines := strings.Split(text, "\n")
	cutoff := -1
	for i, line := range lines {
		if matchesClosing(line, variants) {
			cutoff = i
		}
	}

	if cutoff == -1 {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(strings.Join(lines[:cutoff+1], "\n"))
}

func matchesClosing(line string, variants map[string]bool) bool {
	normalized := strings.ToLower(strings.TrimSpace(line))
	for variant := range variants {
		if strings.HasPrefix(normalized, variant) {
			return true
		}
	}
	return false
}
