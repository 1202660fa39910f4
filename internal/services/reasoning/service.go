package reasoning

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/interfaces"
	"github.com/ternarybob/lectern/internal/services/retrieval"
)

// groundedSystemPrompt instructs the model to answer strictly from the
// retrieved document context.
const groundedSystemPrompt = "You are a Research Assistant. Use the provided context to answer the user's question accurately and cite the source material when possible.\n" +
	"CONTEXT FROM DOCUMENT:\n%s\n\n" +
	"If the context doesn't contain information to answer the question, say so clearly. Never make up information."

// fallbackSystemPrompt is used when retrieval produced no usable context.
// The model must disclose the missing-document limitation to the user.
const fallbackSystemPrompt = "You are a helpful assistant. The user is asking a question, but the document context was not available or relevant. " +
	"Provide a thoughtful response based on general knowledge. If you can't answer properly without the document, say so clearly."

const (
	calcResultMarker = "\n\n[Calculator Tool Result: %s]"
	calcErrorMarker  = "\n\n[Calculator Error]"
)

// Service produces a natural-language draft answer from retrieved context
// and the user's query, then resolves any embedded calc() tool call.
type Service struct {
	llmService interfaces.LLMService
	logger     arbor.ILogger
}

// NewService creates a new reasoning service
func NewService(llmService interfaces.LLMService, logger arbor.ILogger) *Service {
	return &Service{
		llmService: llmService,
		logger:     logger,
	}
}

// Reason generates a draft answer. The system instruction depends on the
// retrieval outcome: context-grounded when chunks were found, general
// knowledge fallback otherwise. Reasoning never fails the chain; a provider
// error degrades into an error-prefixed draft.
func (s *Service) Reason(ctx context.Context, contextResult retrieval.ContextResult, query string) string {
	var systemPrompt string
	if contextResult.HasContext() {
		systemPrompt = fmt.Sprintf(groundedSystemPrompt, contextResult.Text)
	} else {
		s.logger.Debug().
			Str("context_state", string(contextResult.State)).
			Msg("No usable context, reasoning in fallback mode")
		systemPrompt = fallbackSystemPrompt
	}

	messages := []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: query},
	}

	draft, err := s.llmService.Chat(ctx, messages)
	if err != nil {
		s.logger.Error().Err(err).Msg("Draft generation failed")
		return "Error generating response: " + err.Error()
	}

	return s.applyCalculator(draft)
}

// applyCalculator scans the draft for a calc(...) expression, evaluates it
// in the arithmetic sandbox, and appends the result or an error marker.
// Evaluation failure is non-fatal: the draft is annotated and returned.
func (s *Service) applyCalculator(draft string) string {
	expr, found := extractCalcExpr(draft)
	if !found {
		return draft
	}

	result, err := evalArithmetic(expr)
	if err != nil {
		s.logger.Debug().Err(err).Str("expression", expr).Msg("Calculator evaluation failed")
		return draft + calcErrorMarker
	}

	s.logger.Debug().
		Str("expression", expr).
		Float64("result", result).
		Msg("Calculator tool evaluated")

	return draft + fmt.Sprintf(calcResultMarker, formatCalcResult(result))
}
