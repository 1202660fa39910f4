package retrieval

import (
	"context"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/interfaces"
)

// chunkSeparator joins selected chunk contents into one context string
const chunkSeparator = "\n---\n"

// Service retrieves the most relevant chunks of a document for a query by
// embedding the query and ranking stored chunk vectors against it.
type Service struct {
	embeddingService interfaces.EmbeddingService
	chunkStorage     interfaces.ChunkStorage
	topChunks        int
	minScore         float64
	logger           arbor.ILogger
}

// NewService creates a new retrieval service
func NewService(
	embeddingService interfaces.EmbeddingService,
	chunkStorage interfaces.ChunkStorage,
	topChunks int,
	minScore float64,
	logger arbor.ILogger,
) *Service {
	return &Service{
		embeddingService: embeddingService,
		chunkStorage:     chunkStorage,
		topChunks:        topChunks,
		minScore:         minScore,
		logger:           logger,
	}
}

// Retrieve embeds the query, ranks the document's stored chunks against it,
// and joins the top selections into a context string. Retrieval never fails
// the chain: every error path degrades into an Empty or Failed result and
// the pipeline continues without context.
func (s *Service) Retrieve(ctx context.Context, documentID, query string) ContextResult {
	queryVector, err := s.embeddingService.GenerateQueryEmbedding(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to embed query")
		return FailedContext("failed to embed query: " + err.Error())
	}

	chunks, err := s.chunkStorage.GetChunksByDocument(documentID)
	if err != nil {
		s.logger.Error().Err(err).Str("document_id", documentID).Msg("Failed to fetch document chunks")
		return FailedContext("failed to fetch document chunks: " + err.Error())
	}

	if len(chunks) == 0 {
		s.logger.Debug().Str("document_id", documentID).Msg("No chunks stored for document")
		return EmptyContext()
	}

	scored := rankChunks(queryVector, chunks, s.topChunks)
	if len(scored) == 0 {
		s.logger.Warn().Str("document_id", documentID).Msg("No valid chunk embeddings to rank")
		return FailedContext("error processing document embeddings")
	}

	s.logger.Debug().
		Str("document_id", documentID).
		Int("chunks", len(chunks)).
		Int("selected", len(scored)).
		Float64("top_score", scored[0].Score).
		Msg("Ranked document chunks")

	// Below the low-confidence threshold the single best chunk is still
	// returned; absence of match is only reported when no valid chunks exist.
	if scored[0].Score < s.minScore {
		s.logger.Debug().
			Float64("top_score", scored[0].Score).
			Float64("min_score", s.minScore).
			Msg("Low similarity scores, returning best chunk only")
		return FoundContext(scored[0].Content)
	}

	contents := make([]string, len(scored))
	for i, sc := range scored {
		contents[i] = sc.Content
	}

	return FoundContext(strings.Join(contents, chunkSeparator))
}
