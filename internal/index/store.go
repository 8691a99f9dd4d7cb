// Package index implements the embedding index store and the
// retrieval ranker.
//
// The index is a flat line-delimited JSON file, one record per line,
// with embeddings stored unnormalised. The store keeps the last
// parsed collection in memory and reloads only when the file's
// modification timestamp changes.
package index

import (
	"bufio"
	"context"
	"encoding/json"
	"math"
	"os"
	"sync"
	"time"

	"github.com/nklarmann/replyagent/internal/core/domain"
	"github.com/nklarmann/replyagent/internal/core/ports/driven"
	"github.com/nklarmann/replyagent/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// maxLineBytes bounds a single index line. Embeddings of a thousand
// float dimensions serialize well below this.
const maxLineBytes = 4 * 1024 * 1024

// Store serves the embedded email collection with mtime-based cache
// invalidation.
//
// The cached snapshot is immutable: a reload swaps the slice
// reference under the mutex, so concurrent readers never observe a
// partially replaced collection.
type Store struct {
	mu         sync.Mutex
	path       string
	emails     []domain.IndexedEmail
	lastLoaded time.Time
	loaded     bool
}

// NewStore creates a store backed by the index file at path.
// The file does not need to exist yet; a missing file degrades to an
// empty collection.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Invalidate forces the next EnsureFresh call to reload the file.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
}

// EnsureFresh returns the current collection, re-reading the backing
// file only if its modification timestamp changed since the last
// successful load. On read failure the store degrades to an empty
// collection and logs a warning rather than failing the caller.
func (s *Store) EnsureFresh(ctx context.Context) ([]domain.IndexedEmail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil {
		logger.Warn("index: failed to stat %s: %v", s.path, err)
		s.emails = nil
		s.loaded = false
		return nil, nil
	}

	if s.loaded && info.ModTime().Equal(s.lastLoaded) {
		return s.emails, nil
	}

	emails, err := parseIndexFile(s.path)
	if err != nil {
		logger.Warn("index: failed to read %s: %v", s.path, err)
		s.emails = nil
		s.loaded = false
		return nil, nil
	}

	s.emails = emails
	s.lastLoaded = info.ModTime()
	s.loaded = true
	logger.Info("index: loaded %d indexed emails from %s", len(emails), s.path)
	return s.emails, nil
}

// parseIndexFile reads a line-delimited index file. Malformed lines
// are skipped with a warning; a single bad record never aborts the
// load.
func parseIndexFile(path string) ([]domain.IndexedEmail, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var emails []domain.IndexedEmail
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record domain.IndexedEmail
		if err := json.Unmarshal(line, &record); err != nil {
			logger.Warn("index: skipping malformed line %d: %v", lineNo, err)
			continue
		}

		record.Norm = embeddingNorm(record.Embedding)
		emails = append(emails, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return emails, nil
}

// embeddingNorm computes the Euclidean norm of a vector. A zero or
// missing embedding yields 1 by convention, so zero vectors produce a
// zero similarity contribution instead of a division fault.
func embeddingNorm(embedding []float32) float64 {
	var sum float64
	for _, v := range embedding {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return 1
	}
	return norm
}
