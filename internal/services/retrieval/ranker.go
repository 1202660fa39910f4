package retrieval

import (
	"math"
	"sort"

	"github.com/ternarybob/lectern/internal/models"
)

// epsilon guards the cosine denominator so all-zero vectors score 0 instead
// of dividing by zero.
const epsilon = 1e-10

// cosineSimilarity computes the normalized dot product of two equal-length
// vectors. Returns the similarity and false when either vector contains a
// non-finite value.
func cosineSimilarity(a, b []float32) (float64, bool) {
	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			return 0, false
		}
		dot += x * y
		normA += x * x
		normB += y * y
	}

	similarity := dot / (math.Sqrt(normA)*math.Sqrt(normB) + epsilon)
	if math.IsNaN(similarity) || math.IsInf(similarity, 0) {
		return 0, false
	}
	return similarity, true
}

// rankChunks scores every chunk against the query vector and returns the top
// K by descending similarity. Chunks with malformed embeddings (wrong
// dimension, non-finite values) are skipped without aborting the batch; ties
// keep the original chunk order.
func rankChunks(queryVector []float32, chunks []*models.Chunk, topK int) []models.ScoredChunk {
	scored := make([]models.ScoredChunk, 0, len(chunks))

	for _, chunk := range chunks {
		if len(chunk.Embedding) != len(queryVector) {
			continue
		}

		score, ok := cosineSimilarity(chunk.Embedding, queryVector)
		if !ok {
			continue
		}

		scored = append(scored, models.ScoredChunk{
			Content: chunk.Content,
			Score:   score,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	return scored
}
