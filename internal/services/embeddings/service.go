package embeddings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/interfaces"
	"golang.org/x/time/rate"
)

// Service implements the EmbeddingService interface. It wraps the LLM
// service's embedding call with input normalization and a rate limiter so
// ingestion runs (many chunks back-to-back) stay inside provider quotas.
type Service struct {
	llmService interfaces.LLMService
	limiter    *rate.Limiter
	logger     arbor.ILogger
}

// Compile-time assertion
var _ interfaces.EmbeddingService = (*Service)(nil)

// NewService creates a new embedding service. minInterval is the minimum
// spacing between provider calls; zero disables rate limiting.
func NewService(llmService interfaces.LLMService, minInterval time.Duration, logger arbor.ILogger) *Service {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if minInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(minInterval), 1)
	}

	return &Service{
		llmService: llmService,
		limiter:    limiter,
		logger:     logger,
	}
}

// GenerateEmbedding creates a vector embedding for text. Embedded newlines
// are collapsed to spaces before the provider call; embedding quality
// degrades on raw newline-heavy input, so the normalization is part of the
// contract rather than a caller courtesy.
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	normalized := strings.ReplaceAll(text, "\n", " ")

	start := time.Now()
	embedding, err := s.llmService.Embed(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if len(embedding) == 0 {
		return nil, fmt.Errorf("LLM service returned empty embedding")
	}

	s.logger.Debug().
		Int("text_length", len(text)).
		Int("embedding_dim", len(embedding)).
		Dur("duration", time.Since(start)).
		Msg("Generated embedding")

	return embedding, nil
}

// GenerateQueryEmbedding generates an embedding for a search query
func (s *Service) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return s.GenerateEmbedding(ctx, query)
}

// Dimension returns the embedding dimension
func (s *Service) Dimension() int {
	return s.llmService.EmbedDimension()
}
