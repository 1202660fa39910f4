package retrieval

import (
	"math"
	"testing"

	"github.com/ternarybob/lectern/internal/models"
)

func chunk(docID string, index int, content string, embedding []float32) *models.Chunk {
	return &models.Chunk{
		ID:         content,
		DocumentID: docID,
		Index:      index,
		Content:    content,
		Embedding:  embedding,
	}
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("Identical vectors score one", func(t *testing.T) {
		score, ok := cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3})
		if !ok {
			t.Fatal("Expected valid similarity")
		}
		if math.Abs(score-1.0) > 1e-6 {
			t.Errorf("Expected similarity ~1, got %v", score)
		}
	})

	t.Run("Orthogonal vectors score zero", func(t *testing.T) {
		score, ok := cosineSimilarity([]float32{1, 0}, []float32{0, 1})
		if !ok {
			t.Fatal("Expected valid similarity")
		}
		if math.Abs(score) > 1e-6 {
			t.Errorf("Expected similarity ~0, got %v", score)
		}
	})

	t.Run("Opposite vectors score negative one", func(t *testing.T) {
		score, ok := cosineSimilarity([]float32{1, 1}, []float32{-1, -1})
		if !ok {
			t.Fatal("Expected valid similarity")
		}
		if math.Abs(score+1.0) > 1e-6 {
			t.Errorf("Expected similarity ~-1, got %v", score)
		}
	})

	t.Run("Zero vector stays finite", func(t *testing.T) {
		score, ok := cosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3})
		if !ok {
			t.Fatal("Expected valid similarity for zero vector")
		}
		if score != 0 {
			t.Errorf("Expected zero similarity for zero vector, got %v", score)
		}
	})

	t.Run("Both vectors zero stays finite", func(t *testing.T) {
		score, ok := cosineSimilarity([]float32{0, 0}, []float32{0, 0})
		if !ok {
			t.Fatal("Expected valid similarity")
		}
		if math.IsNaN(score) || math.IsInf(score, 0) {
			t.Errorf("Expected finite score, got %v", score)
		}
	})

	t.Run("NaN component rejected", func(t *testing.T) {
		_, ok := cosineSimilarity([]float32{float32(math.NaN()), 1}, []float32{1, 1})
		if ok {
			t.Error("Expected rejection for NaN component")
		}
	})

	t.Run("Inf component rejected", func(t *testing.T) {
		_, ok := cosineSimilarity([]float32{1, 1}, []float32{float32(math.Inf(1)), 1})
		if ok {
			t.Error("Expected rejection for Inf component")
		}
	})
}

func TestRankChunks(t *testing.T) {
	query := []float32{1, 0}

	t.Run("Scores are non-increasing", func(t *testing.T) {
		chunks := []*models.Chunk{
			chunk("doc", 0, "weak", []float32{0, 1}),
			chunk("doc", 1, "strong", []float32{1, 0}),
			chunk("doc", 2, "medium", []float32{1, 1}),
		}

		scored := rankChunks(query, chunks, 5)

		if len(scored) != 3 {
			t.Fatalf("Expected 3 scored chunks, got %d", len(scored))
		}
		for i := 1; i < len(scored); i++ {
			if scored[i].Score > scored[i-1].Score {
				t.Errorf("Scores not non-increasing at %d: %v > %v", i, scored[i].Score, scored[i-1].Score)
			}
		}
		if scored[0].Content != "strong" {
			t.Errorf("Expected best chunk first, got %q", scored[0].Content)
		}
	})

	t.Run("Top K truncation", func(t *testing.T) {
		chunks := make([]*models.Chunk, 10)
		for i := range chunks {
			chunks[i] = chunk("doc", i, "c", []float32{1, float32(i)})
		}

		scored := rankChunks(query, chunks, 5)

		if len(scored) != 5 {
			t.Errorf("Expected 5 chunks after truncation, got %d", len(scored))
		}
	})

	t.Run("Malformed chunks skipped", func(t *testing.T) {
		chunks := []*models.Chunk{
			chunk("doc", 0, "wrong dimension", []float32{1, 0, 0}),
			chunk("doc", 1, "nan embedding", []float32{float32(math.NaN()), 0}),
			chunk("doc", 2, "valid", []float32{1, 0}),
		}

		scored := rankChunks(query, chunks, 5)

		if len(scored) != 1 {
			t.Fatalf("Expected 1 valid chunk, got %d", len(scored))
		}
		if scored[0].Content != "valid" {
			t.Errorf("Expected valid chunk kept, got %q", scored[0].Content)
		}
	})

	t.Run("All malformed yields empty", func(t *testing.T) {
		chunks := []*models.Chunk{
			chunk("doc", 0, "a", []float32{1}),
			chunk("doc", 1, "b", nil),
		}

		scored := rankChunks(query, chunks, 5)

		if len(scored) != 0 {
			t.Errorf("Expected no scored chunks, got %d", len(scored))
		}
	})

	t.Run("Ties keep original order", func(t *testing.T) {
		chunks := []*models.Chunk{
			chunk("doc", 0, "first", []float32{1, 0}),
			chunk("doc", 1, "second", []float32{1, 0}),
			chunk("doc", 2, "third", []float32{1, 0}),
		}

		scored := rankChunks(query, chunks, 5)

		// Identical embeddings produce identical scores, so the stable
		// sort must keep ingestion order.
		if scored[0].Content != "first" || scored[1].Content != "second" || scored[2].Content != "third" {
			t.Errorf("Expected ingestion order preserved on ties, got %v", []string{scored[0].Content, scored[1].Content, scored[2].Content})
		}
	})

	t.Run("Deterministic across calls", func(t *testing.T) {
		chunks := []*models.Chunk{
			chunk("doc", 0, "a", []float32{1, 1}),
			chunk("doc", 1, "b", []float32{1, 0}),
			chunk("doc", 2, "c", []float32{0, 1}),
		}

		first := rankChunks(query, chunks, 5)
		second := rankChunks(query, chunks, 5)

		if len(first) != len(second) {
			t.Fatal("Expected identical result lengths")
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("Result differs at %d: %v vs %v", i, first[i], second[i])
			}
		}
	})
}
