package index

import (
	"math"
	"sort"

	"github.com/nklarmann/replyagent/internal/core/domain"
)

// CosineSimilarity returns dot(a,b) / (normA * normB). It is defined
// as 0 when either norm is 0 or the vectors differ in dimensionality,
// which guards against comparing embeddings from different models.
func CosineSimilarity(a, b []float32, normA, normB float64) float64 {
	if len(a) != len(b) || normA == 0 || normB == 0 {
		return 0
	}

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}

// QueryNorm computes the Euclidean norm of a query embedding, with
// the same zero-substitution convention as the stored records.
func QueryNorm(embedding []float32) float64 {
	return embeddingNorm(embedding)
}

// Rank scores every email against the query embedding by cosine
// similarity and returns the topK best matches, sorted descending.
// Non-finite scores are filtered out; ties keep the original corpus
// order. topK is caller-supplied and not bounded here.
func Rank(query []float32, emails []domain.IndexedEmail, topK int) []domain.Match {
	queryNorm := QueryNorm(query)

	matches := make([]domain.Match, 0, len(emails))
	for _, email := range emails {
		similarity := CosineSimilarity(query, email.Embedding, queryNorm, email.Norm)
		if math.IsNaN(similarity) || math.IsInf(similarity, 0) {
			continue
		}
		matches = append(matches, domain.Match{Email: email, Similarity: similarity})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if topK >= 0 && topK < len(matches) {
		matches = matches[:topK]
	}
	return matches
}
