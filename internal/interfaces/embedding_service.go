package interfaces

import "context"

// EmbeddingService generates vector embeddings for document chunks and
// queries. Input text is normalized (embedded newlines collapsed to spaces)
// before it reaches the provider; that normalization is part of the contract.
type EmbeddingService interface {
	// GenerateEmbedding creates an embedding for raw text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// GenerateQueryEmbedding creates an embedding for a search query
	GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error)

	// Dimension returns the embedding vector dimension
	Dimension() int
}
