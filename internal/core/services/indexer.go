package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/nklarmann/replyagent/internal/classifier"
	"github.com/nklarmann/replyagent/internal/core/domain"
	"github.com/nklarmann/replyagent/internal/core/ports/driven"
	"github.com/nklarmann/replyagent/internal/core/ports/driving"
	"github.com/nklarmann/replyagent/internal/logger"
	"github.com/nklarmann/replyagent/internal/normalisers/email"
)

// Ensure IndexService implements the interface.
var _ driving.IndexBuilder = (*IndexService)(nil)

const (
	// maxEmbedChars caps the text sent to the embedding service per
	// email.
	maxEmbedChars = 4000

	// indexPreviewLength caps the excerpt stored with each record.
	indexPreviewLength = 280

	// progressInterval paces the build progress log.
	progressInterval = 50
)

// IndexService builds the serialized email index from the markdown
// corpus.
//
// The new index is assembled in a temporary file and moved into place
// with a single rename, so query-time readers always see either the
// previous complete index or the new one.
type IndexService struct {
	normaliser *email.Normaliser
	embedder   driven.EmbeddingService
	store      driven.IndexStore
	limiter    *rate.Limiter
}

// NewIndexService creates a new index builder writing to the store's
// backing file. requestsPerSecond throttles embedding calls; zero or
// less means unthrottled.
func NewIndexService(embedder driven.EmbeddingService, store driven.IndexStore, requestsPerSecond float64) *IndexService {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &IndexService{
		normaliser: email.New(),
		embedder:   embedder,
		store:      store,
		limiter:    limiter,
	}
}

// Build walks the corpus, classifies and embeds each email, and
// atomically replaces the index file.
func (s *IndexService) Build(ctx context.Context, opts driving.IndexBuildOptions) (*driving.BuildStats, error) {
	if strings.TrimSpace(opts.CorpusDir) == "" {
		return nil, fmt.Errorf("corpus directory is required: %w", domain.ErrInvalidInput)
	}

	if err := s.embedder.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	files, err := s.normaliser.ListMarkdownFiles(opts.CorpusDir)
	if err != nil {
		return nil, fmt.Errorf("list corpus: %w", err)
	}

	logger.Section("Index Build")
	logger.Info("Corpus: %s (%d files), model: %s", opts.CorpusDir, len(files), s.embedder.ModelName())

	outPath := s.store.Path()
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(outPath), filepath.Base(outPath)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp index: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	encoder := json.NewEncoder(tmp)
	stats := &driving.BuildStats{}

	for _, file := range files {
		if opts.Limit > 0 && stats.Processed >= opts.Limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		parsed, err := s.normaliser.ParseFile(file)
		if err != nil {
			logger.Debug("Skipping %s: %v", file, err)
			stats.Skipped++
			continue
		}
		if opts.AuthoredOnly && !email.IsAuthored(parsed) {
			stats.Skipped++
			continue
		}

		text := buildEmbedText(parsed)
		if text == "" {
			stats.Skipped++
			continue
		}

		stats.Processed++

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		embedding, err := s.embedder.Embed(ctx, text)
		if err != nil {
			logger.Warn("Embedding failed for %s: %v", parsed.ID, err)
			stats.Failed++
			continue
		}

		record := buildIndexRecord(parsed, embedding, text, opts.CorpusDir)
		if err := encoder.Encode(record); err != nil {
			return nil, fmt.Errorf("write index record: %w", err)
		}
		stats.Embedded++

		if stats.Processed%progressInterval == 0 {
			logger.Info("Processed %d emails (%d embedded)...", stats.Processed, stats.Embedded)
		}
	}

	if err := tmp.Sync(); err != nil {
		return nil, fmt.Errorf("flush index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close index: %w", err)
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return nil, fmt.Errorf("replace index: %w", err)
	}
	s.store.Invalidate()

	logger.Info("Index build complete. Embedded %d / %d emails. Output: %s", stats.Embedded, stats.Processed, outPath)
	return stats, nil
}

// buildEmbedText assembles the text handed to the embedding model:
// subject line plus sanitized body, capped at maxEmbedChars.
func buildEmbedText(e *domain.Email) string {
	var parts []string
	if e.Subject != "" {
		parts = append(parts, "Subject: "+e.Subject)
	}
	if e.SanitizedBody != "" {
		parts = append(parts, e.SanitizedBody)
	}
	text := strings.TrimSpace(strings.Join(parts, "\n\n"))
	return truncateRunes(text, maxEmbedChars)
}

// buildIndexRecord maps a parsed email to its serialized index form.
func buildIndexRecord(e *domain.Email, embedding []float32, text, corpusDir string) domain.IndexedEmail {
	date := e.RawDate
	if date == "" {
		date = e.Date
	}
	recordPath := e.Path
	if rel, err := filepath.Rel(corpusDir, e.Path); err == nil {
		recordPath = rel
	}
	return domain.IndexedEmail{
		ID:         e.ID,
		Subject:    e.Subject,
		Preview:    indexPreview(e.SanitizedBody),
		Category:   classifier.Classify(*e),
		Direction:  e.Direction,
		Date:       date,
		To:         e.To,
		From:       e.From,
		Path:       recordPath,
		Body:       e.SanitizedBody,
		Embedding:  embedding,
		TextLength: len([]rune(text)),
	}
}

// indexPreview collapses whitespace and caps the stored excerpt.
func indexPreview(body string) string {
	return strings.TrimSpace(truncateRunes(strings.Join(strings.Fields(body), " "), indexPreviewLength))
}
