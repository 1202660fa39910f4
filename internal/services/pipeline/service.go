package pipeline

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/interfaces"
	"github.com/ternarybob/lectern/internal/models"
	"github.com/ternarybob/lectern/internal/services/reasoning"
	"github.com/ternarybob/lectern/internal/services/retrieval"
	"github.com/ternarybob/lectern/internal/services/security"
	"github.com/ternarybob/lectern/internal/services/verification"
)

// Trace labels emitted per completed stage
const (
	TraceSecurityCleared   = "Security Cleared"
	TraceRetrievalComplete = "Semantic Retrieval Complete"
	TraceReasoningVerified = "Reasoning Verified"
	TraceSchemaValidated   = "Schema Validated"
	TraceSecurityFailed    = "Security Check Failed"
	TraceError             = "Error encountered"
)

// blockedSummary is the caller-visible summary for rejected queries
const blockedSummary = "Request Blocked: Security Policy Violation."

// rejectionReason categorizes audit records written for blocked queries
const rejectionReason = "injection"

// Service sequences the four reasoning stages into a single deterministic
// pipeline: security gate, semantic retrieval, draft reasoning, structured
// verification. Stages run strictly in order; a security rejection
// short-circuits the chain and no later stage executes.
type Service struct {
	gate         *security.Gate
	retrieval    *retrieval.Service
	reasoning    *reasoning.Service
	verification *verification.Service
	auditStorage interfaces.AuditStorage
	logger       arbor.ILogger
}

// Compile-time assertion
var _ interfaces.AskService = (*Service)(nil)

// NewService creates a new pipeline service
func NewService(
	gate *security.Gate,
	retrievalService *retrieval.Service,
	reasoningService *reasoning.Service,
	verificationService *verification.Service,
	auditStorage interfaces.AuditStorage,
	logger arbor.ILogger,
) *Service {
	return &Service{
		gate:         gate,
		retrieval:    retrievalService,
		reasoning:    reasoningService,
		verification: verificationService,
		auditStorage: auditStorage,
		logger:       logger,
	}
}

// Ask runs the pipeline for one query and always produces exactly one
// envelope. A stage breaking its own never-fail contract is caught once
// here, at the outermost boundary, and mapped to an error envelope.
func (s *Service) Ask(ctx context.Context, documentID, query string) (envelope *models.ResponseEnvelope) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Str("document_id", documentID).
				Msg("Pipeline stage panicked")
			envelope = errorEnvelope(fmt.Sprintf("internal pipeline failure: %v", r))
		}
	}()

	safe, err := s.gate.VerifyInput(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Msg("Security check aborted the chain")
		return errorEnvelope("error processing query: " + err.Error())
	}

	if !safe {
		// Audit write is fire-and-forget: a failed write never blocks the response
		if auditErr := s.auditStorage.RecordRejection(query, rejectionReason); auditErr != nil {
			s.logger.Warn().Err(auditErr).Msg("Failed to record rejected query")
		}

		return &models.ResponseEnvelope{
			Summary:   blockedSummary,
			KeyPoints: []string{},
			IsSafe:    false,
			Trace:     []string{TraceSecurityFailed},
		}
	}

	contextResult := s.retrieval.Retrieve(ctx, documentID, query)
	draft := s.reasoning.Reason(ctx, contextResult, query)
	verified := s.verification.Verify(ctx, draft, contextResult.PromptText())

	s.logger.Info().
		Str("document_id", documentID).
		Str("context_state", string(contextResult.State)).
		Float64("confidence", verified.ConfidenceScore).
		Msg("Pipeline completed")

	return &models.ResponseEnvelope{
		Summary:         verified.Summary,
		KeyPoints:       verified.KeyPoints,
		ConfidenceScore: verified.ConfidenceScore,
		IsSafe:          true,
		Trace: []string{
			TraceSecurityCleared,
			TraceRetrievalComplete,
			TraceReasoningVerified,
			TraceSchemaValidated,
		},
	}
}

func errorEnvelope(message string) *models.ResponseEnvelope {
	return &models.ResponseEnvelope{
		Summary:         message,
		KeyPoints:       []string{},
		ConfidenceScore: 0,
		IsSafe:          false,
		Trace:           []string{TraceError},
		Error:           message,
	}
}
