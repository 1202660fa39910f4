package models

import "time"

// Document represents an ingested source document. The extracted text itself
// is not stored on the document record; it lives in the per-document chunks.
type Document struct {
	ID         string    `json:"id"` // doc_<uuid>
	Title      string    `json:"title"`
	PageCount  int       `json:"page_count"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Chunk is a fixed-size window of a document's extracted text together with
// its embedding vector. Chunks are written once at ingestion time and are
// read-only during retrieval.
type Chunk struct {
	ID         string    `json:"id"`          // chunk_<uuid>
	DocumentID string    `json:"document_id"` // owning document
	Index      int       `json:"index"`       // position within the document
	Content    string    `json:"content"`
	Embedding  []float32 `json:"embedding"`
	CreatedAt  time.Time `json:"created_at"`
}

// ScoredChunk pairs chunk content with its cosine similarity against a query
// vector. Ephemeral: produced and consumed within a single retrieval call.
type ScoredChunk struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}
