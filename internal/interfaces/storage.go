package interfaces

import "github.com/ternarybob/lectern/internal/models"

// DocumentStorage persists document records
type DocumentStorage interface {
	SaveDocument(doc *models.Document) error
	GetDocument(id string) (*models.Document, error)
	ListDocuments(limit int) ([]*models.Document, error)
	DeleteDocument(id string) error
	CountDocuments() (int, error)
}

// ChunkStorage persists document chunks with their embeddings. Chunks are
// append-only from the pipeline's perspective: written at ingestion, read
// during retrieval.
type ChunkStorage interface {
	SaveChunks(chunks []*models.Chunk) error
	GetChunksByDocument(documentID string) ([]*models.Chunk, error)
	DeleteChunksByDocument(documentID string) error
	CountChunksByDocument(documentID string) (int, error)
}

// AuditStorage records queries rejected by the security gate. Writes are
// fire-and-forget: a failed audit write must never abort the response.
type AuditStorage interface {
	RecordRejection(query, reason string) error
	ListRejections(limit int) ([]*models.RejectionRecord, error)
}

// StorageManager provides access to all storage implementations
type StorageManager interface {
	DocumentStorage() DocumentStorage
	ChunkStorage() ChunkStorage
	AuditStorage() AuditStorage

	// RunGC triggers a value-log garbage collection pass on the underlying
	// store. Called periodically by the maintenance scheduler.
	RunGC() error

	Close() error
}
