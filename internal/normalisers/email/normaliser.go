// Package email parses the markdown email corpus into domain emails.
//
// Corpus files carry a frontmatter block with message metadata,
// followed by header lines (bolded or plain colon-delimited) and the
// body. The normaliser extracts the header fields and strips markdown
// and quoting artifacts from the body; every downstream consumer
// (classifier, embedding, style aggregation) works on the sanitized
// body, never the raw one.
package email

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nklarmann/replyagent/internal/core/domain"
)

// ownerMarker identifies emails authored by the corpus owner,
// matched case-insensitively against the From header.
const ownerMarker = "klarmann"

var (
	frontmatterPattern = regexp.MustCompile(`(?s)^---\n(.*?)\n---`)

	fencedCodePattern  = regexp.MustCompile("(?s)```.*?```")
	headingPattern     = regexp.MustCompile(`(?m)#+\s.*$`)
	blockquotePattern  = regexp.MustCompile(`(?m)>\s?.*$`)
	boldHeaderPattern  = regexp.MustCompile(`(?im)\*\*(From|To|Date):.*$`)
	plainHeaderPattern = regexp.MustCompile(`(?im)^(from|to|cc|an|von|betreff|subject|gesendet|date):.*$`)
	headerLinePrefixes = []string{"**From:**", "**To:**", "**Date:**"}
)

// Normaliser parses raw corpus files into domain emails.
type Normaliser struct{}

// New creates a new corpus normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// ListMarkdownFiles recursively collects the .md files under dir.
func (n *Normaliser) ListMarkdownFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ParseFile reads and parses one corpus file.
func (n *Normaliser) ParseFile(path string) (*domain.Email, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return n.Parse(path, string(raw))
}

// Parse parses raw corpus file content. Files without a frontmatter
// block return domain.ErrMissingFrontmatter; callers skip them with a
// warning during bulk runs.
func (n *Normaliser) Parse(path, raw string) (*domain.Email, error) {
	fm := frontmatterPattern.FindStringSubmatch(raw)
	if fm == nil {
		return nil, domain.ErrMissingFrontmatter
	}

	meta := parseFrontmatter(fm[1])
	remainder := strings.TrimSpace(raw[len(fm[0]):])

	from := extractLineValue(remainder, "From")
	to := extractLineValue(remainder, "To")
	date := extractLineValue(remainder, "Date")

	// Drop the bolded header lines from the body.
	var bodyLines []string
	for _, line := range strings.Split(remainder, "\n") {
		if hasHeaderPrefix(line) {
			continue
		}
		bodyLines = append(bodyLines, line)
	}
	body := strings.TrimSpace(strings.Join(bodyLines, "\n"))

	id := meta["id"]
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), ".md")
	}

	return &domain.Email{
		ID:            id,
		Subject:       meta["subject"],
		Direction:     meta["direction"],
		RawDate:       meta["date"],
		From:          from,
		To:            to,
		Date:          date,
		Path:          path,
		Body:          body,
		SanitizedBody: SanitizeBody(body),
		Metadata:      meta,
	}, nil
}

// SanitizeBody strips fenced code blocks, heading markers, blockquote
// markers and residual header-style lines from a body.
func SanitizeBody(body string) string {
	body = fencedCodePattern.ReplaceAllString(body, "")
	body = headingPattern.ReplaceAllString(body, "")
	body = blockquotePattern.ReplaceAllString(body, "")
	body = boldHeaderPattern.ReplaceAllString(body, "")
	body = plainHeaderPattern.ReplaceAllString(body, "")
	return strings.TrimSpace(body)
}

// IsAuthored reports whether the email was written by the corpus
// owner, based on the From header.
func IsAuthored(email *domain.Email) bool {
	return strings.Contains(strings.ToLower(email.From), ownerMarker)
}

// extractLineValue finds a header value by label, preferring the
// bolded markup form and falling back to the plain form.
func extractLineValue(text, label string) string {
	quoted := regexp.QuoteMeta(label)

	bold := regexp.MustCompile(`(?im)^\*\*` + quoted + `:\*\*\s*(.*)$`)
	if m := bold.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	plain := regexp.MustCompile(`(?im)^` + quoted + `:\s*(.*)$`)
	if m := plain.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// parseFrontmatter reads the key: value lines of a frontmatter block.
func parseFrontmatter(block string) map[string]string {
	meta := make(map[string]string)
	for _, line := range strings.Split(block, "\n") {
		key, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value := strings.TrimSpace(rest)
		value = strings.Trim(value, `"`)
		meta[strings.TrimSpace(key)] = value
	}
	return meta
}

// hasHeaderPrefix reports whether a body line is a bolded header line.
func hasHeaderPrefix(line string) bool {
	for _, prefix := range headerLinePrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
