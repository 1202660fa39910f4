package interfaces

import (
	"context"

	"github.com/ternarybob/lectern/internal/models"
)

// AskRequest is the caller-facing request for the question-answering pipeline
type AskRequest struct {
	DocumentID string `json:"document_id" validate:"required"`
	Query      string `json:"query" validate:"required"`
}

// AskService runs the multi-stage question-answering pipeline. Ask always
// returns a well-formed envelope: business-logic failures (provider errors,
// missing documents, malformed model output) degrade inside the pipeline and
// never surface as a transport-level error.
type AskService interface {
	Ask(ctx context.Context, documentID, query string) *models.ResponseEnvelope
}
