package services

import (
	"context"
	"math"

	"github.com/nklarmann/replyagent/internal/core/domain"
	"github.com/nklarmann/replyagent/internal/core/ports/driven"
)

// fakeStore serves a fixed in-memory collection.
type fakeStore struct {
	path        string
	records     []domain.IndexedEmail
	err         error
	invalidated int
}

func (f *fakeStore) EnsureFresh(_ context.Context) ([]domain.IndexedEmail, error) {
	return f.records, f.err
}

func (f *fakeStore) Invalidate() { f.invalidated++ }

func (f *fakeStore) Path() string { return f.path }

// fakeEmbedder returns a fixed vector, or one derived per input.
type fakeEmbedder struct {
	vector    []float32
	vectorFor func(text string) []float32
	err       error
	errFor    func(text string) error
	pingErr   error
	inputs    []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.inputs = append(f.inputs, text)
	if f.errFor != nil {
		if err := f.errFor(text); err != nil {
			return nil, err
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.vectorFor != nil {
		return f.vectorFor(text), nil
	}
	return f.vector, nil
}

func (f *fakeEmbedder) ModelName() string { return "fake-embed" }

func (f *fakeEmbedder) Ping(_ context.Context) error { return f.pingErr }

func (f *fakeEmbedder) Close() error { return nil }

// fakeLLM captures the conversation and returns a canned reply.
type fakeLLM struct {
	reply    string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	f.messages = messages
	f.opts = opts
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) ModelName() string { return "fake-llm" }

func (f *fakeLLM) Ping(_ context.Context) error { return nil }

func (f *fakeLLM) Close() error { return nil }

// fakeSearch returns fixed matches and records the last query.
type fakeSearch struct {
	matches   []domain.Match
	err       error
	calls     int
	lastQuery string
	lastTopK  int
}

func (f *fakeSearch) Search(_ context.Context, query string, topK int) ([]domain.Match, error) {
	f.calls++
	f.lastQuery = query
	f.lastTopK = topK
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

// indexedEmail builds a record with its norm precomputed, as the
// store does at load time.
func indexedEmail(id string, embedding []float32, body string) domain.IndexedEmail {
	var sum float64
	for _, v := range embedding {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1
	}
	return domain.IndexedEmail{
		ID:        id,
		Category:  domain.CategoryColleagues,
		Body:      body,
		Embedding: embedding,
		Norm:      norm,
	}
}
