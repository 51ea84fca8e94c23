package index

import (
	"math"
	"sort"

	"github.com/owid-edu/owidrag/internal/knowledge"
)

// Result is one retrieved document with its similarity score and 1-based
// rank among the surviving results. Results are derived per query and never
// persisted.
type Result struct {
	Document knowledge.Document `json:"document"`
	Score    float32            `json:"score"`
	Rank     int                `json:"rank"`
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
// Mismatched lengths and zero-magnitude vectors score 0.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denominator := float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB)))
	if denominator == 0 {
		return 0
	}

	return dot / denominator
}

// Search scores the query against every document embedding and returns the
// surviving results in descending score order, ranked 1..N.
//
// Candidate selection happens in two stages: the topK highest-scoring
// documents are taken first, and only then is the threshold applied. A
// document above the threshold that falls outside the topK window is never
// returned, so fewer than topK results (or none) may come back even when
// more documents qualify. That ordering is intentional and pinned by tests.
//
// Ties in score break by ascending document index, keeping results
// deterministic. topK <= 0 disables truncation. An empty snapshot yields an
// empty result slice.
func (s *Snapshot) Search(query []float32, topK int, threshold float32) []Result {
	if len(s.Documents) == 0 {
		return []Result{}
	}

	scores := make([]float32, len(s.Embeddings))
	for i, emb := range s.Embeddings {
		scores[i] = CosineSimilarity(query, emb)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	if topK > 0 && len(order) > topK {
		order = order[:topK]
	}

	results := make([]Result, 0, len(order))
	for _, idx := range order {
		if scores[idx] < threshold {
			continue
		}
		results = append(results, Result{
			Document: s.Documents[idx],
			Score:    scores[idx],
			Rank:     len(results) + 1,
		})
	}

	return results
}
