package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nklarmann/replyagent/internal/classifier"
	"github.com/nklarmann/replyagent/internal/core/domain"
	"github.com/nklarmann/replyagent/internal/core/ports/driving"
	"github.com/nklarmann/replyagent/internal/logger"
	"github.com/nklarmann/replyagent/internal/normalisers/email"
	"github.com/nklarmann/replyagent/internal/style"
)

// Ensure ProfileService implements the interface.
var _ driving.ProfileBuilder = (*ProfileService)(nil)

// ProfileService builds the per-audience style profile document from
// the corpus owner's sent emails.
type ProfileService struct {
	normaliser *email.Normaliser
	outPath    string
}

// NewProfileService creates a new profile builder writing to outPath.
func NewProfileService(outPath string) *ProfileService {
	return &ProfileService{
		normaliser: email.New(),
		outPath:    outPath,
	}
}

// OutputPath returns the profile document location.
func (s *ProfileService) OutputPath() string {
	return s.outPath
}

// Build walks the corpus, keeps authored emails, folds them into
// per-category statistics and writes the profile document.
func (s *ProfileService) Build(ctx context.Context, opts driving.ProfileBuildOptions) (*domain.StyleProfileDocument, error) {
	if strings.TrimSpace(opts.CorpusDir) == "" {
		return nil, fmt.Errorf("corpus directory is required: %w", domain.ErrInvalidInput)
	}

	files, err := s.normaliser.ListMarkdownFiles(opts.CorpusDir)
	if err != nil {
		return nil, fmt.Errorf("list corpus: %w", err)
	}

	logger.Section("Style Profile Build")
	logger.Info("Corpus: %s (%d files)", opts.CorpusDir, len(files))

	aggregator := style.NewAggregator()
	for _, file := range files {
		if opts.Limit > 0 && aggregator.Processed() >= opts.Limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		parsed, err := s.normaliser.ParseFile(file)
		if err != nil {
			logger.Debug("Skipping %s: %v", file, err)
			continue
		}
		if !email.IsAuthored(parsed) {
			continue
		}

		aggregator.Add(parsed, classifier.Classify(*parsed))
	}

	doc := aggregator.Snapshot(time.Now())
	if err := s.writeDocument(doc); err != nil {
		return nil, err
	}

	logger.Info("Processed %d emails. Style profile written to %s.", doc.EmailSampleSize, s.outPath)
	return doc, nil
}

// writeDocument serializes the profile to a temp file and moves it
// into place with a single rename.
func (s *ProfileService) writeDocument(doc *domain.StyleProfileDocument) error {
	if err := os.MkdirAll(filepath.Dir(s.outPath), 0o755); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.outPath), filepath.Base(s.outPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp profile: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close profile: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.outPath); err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}
	return nil
}

// LoadProfile reads a previously built profile document.
func LoadProfile(path string) (*domain.StyleProfileDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("style profile %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var doc domain.StyleProfileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &doc, nil
}
