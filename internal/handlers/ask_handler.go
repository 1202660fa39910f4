package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/interfaces"
)

// AskHandler handles question-answering HTTP requests
type AskHandler struct {
	askService interfaces.AskService
	validate   *validator.Validate
	logger     arbor.ILogger
}

// NewAskHandler creates a new ask handler
func NewAskHandler(askService interfaces.AskService, logger arbor.ILogger) *AskHandler {
	return &AskHandler{
		askService: askService,
		validate:   validator.New(),
		logger:     logger,
	}
}

// AskHandler handles POST /api/ask requests. Malformed input is the only
// path that returns a transport-level error; every business-logic failure
// inside the pipeline still yields a 200 with a well-formed envelope.
func (h *AskHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req interfaces.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode ask request")
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "document_id and query are required")
		return
	}

	h.logger.Info().
		Str("document_id", req.DocumentID).
		Int("query_length", len(req.Query)).
		Msg("Processing ask request")

	envelope := h.askService.Ask(r.Context(), req.DocumentID, req.Query)

	writeJSON(w, http.StatusOK, envelope)
}
