package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/common"
	"github.com/ternarybob/lectern/internal/interfaces"
	"github.com/ternarybob/lectern/internal/models"
)

// Service ingests uploaded PDFs: extract text, split into fixed-size
// windows, embed each surviving window, and persist the document with its
// chunks. Ingestion defines the chunk shape the retrieval stage consumes.
type Service struct {
	extractor        interfaces.PDFExtractor
	embeddingService interfaces.EmbeddingService
	documentStorage  interfaces.DocumentStorage
	chunkStorage     interfaces.ChunkStorage
	chunkSize        int
	minChunkChars    int
	logger           arbor.ILogger
}

// NewService creates a new ingestion service
func NewService(
	extractor interfaces.PDFExtractor,
	embeddingService interfaces.EmbeddingService,
	documentStorage interfaces.DocumentStorage,
	chunkStorage interfaces.ChunkStorage,
	config *common.IngestConfig,
	logger arbor.ILogger,
) *Service {
	return &Service{
		extractor:        extractor,
		embeddingService: embeddingService,
		documentStorage:  documentStorage,
		chunkStorage:     chunkStorage,
		chunkSize:        config.ChunkSize,
		minChunkChars:    config.MinChunkChars,
		logger:           logger,
	}
}

// IngestPDF processes an uploaded PDF end to end. Unlike the query pipeline,
// ingestion aborts on failure: a document with partial or missing embeddings
// would silently degrade every later retrieval against it.
func (s *Service) IngestPDF(ctx context.Context, filename string, content []byte) (*models.Document, error) {
	start := time.Now()

	extraction, err := s.extractor.ExtractText(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract PDF text: %w", err)
	}

	windows := chunkText(extraction.Text, s.chunkSize, s.minChunkChars)
	if len(windows) == 0 {
		return nil, fmt.Errorf("document contains no extractable text")
	}

	doc := &models.Document{
		ID:         common.NewDocumentID(),
		Title:      filename,
		PageCount:  extraction.PageCount,
		ChunkCount: len(windows),
	}

	chunks := make([]*models.Chunk, 0, len(windows))
	for i, window := range windows {
		embedding, err := s.embeddingService.GenerateEmbedding(ctx, window)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d of %d: %w", i+1, len(windows), err)
		}

		chunks = append(chunks, &models.Chunk{
			ID:         common.NewChunkID(),
			DocumentID: doc.ID,
			Index:      i,
			Content:    window,
			Embedding:  embedding,
		})
	}

	if err := s.documentStorage.SaveDocument(doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	if err := s.chunkStorage.SaveChunks(chunks); err != nil {
		// Remove the orphaned document record so a retry starts clean
		if delErr := s.documentStorage.DeleteDocument(doc.ID); delErr != nil {
			s.logger.Warn().Err(delErr).Str("doc_id", doc.ID).Msg("Failed to remove document after chunk save failure")
		}
		return nil, fmt.Errorf("failed to save chunks: %w", err)
	}

	s.logger.Info().
		Str("doc_id", doc.ID).
		Str("title", doc.Title).
		Int("pages", doc.PageCount).
		Int("chunks", len(chunks)).
		Dur("duration", time.Since(start)).
		Msg("Document ingested")

	return doc, nil
}

// DeleteDocument removes a document and its chunks
func (s *Service) DeleteDocument(documentID string) error {
	if err := s.chunkStorage.DeleteChunksByDocument(documentID); err != nil {
		return fmt.Errorf("failed to delete document chunks: %w", err)
	}
	if err := s.documentStorage.DeleteDocument(documentID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
