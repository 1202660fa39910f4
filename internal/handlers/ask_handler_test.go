package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/models"
)

type stubAskService struct {
	envelope   *models.ResponseEnvelope
	documentID string
	query      string
}

func (m *stubAskService) Ask(ctx context.Context, documentID, query string) *models.ResponseEnvelope {
	m.documentID = documentID
	m.query = query
	return m.envelope
}

func TestAskHandler(t *testing.T) {
	envelope := &models.ResponseEnvelope{
		Summary:         "Revenue grew.",
		KeyPoints:       []string{"growth"},
		ConfidenceScore: 0.9,
		IsSafe:          true,
		Trace:           []string{"Security Cleared", "Semantic Retrieval Complete", "Reasoning Verified", "Schema Validated"},
	}

	t.Run("Valid request returns envelope", func(t *testing.T) {
		service := &stubAskService{envelope: envelope}
		handler := NewAskHandler(service, arbor.NewLogger())

		body := `{"document_id":"doc_1","query":"What happened to revenue?"}`
		req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.AskHandler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if service.documentID != "doc_1" {
			t.Errorf("Unexpected document ID: %q", service.documentID)
		}

		var got models.ResponseEnvelope
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if got.Summary != "Revenue grew." {
			t.Errorf("Unexpected summary: %q", got.Summary)
		}
		if !got.IsSafe {
			t.Error("Expected is_safe true")
		}
		if len(got.Trace) != 4 {
			t.Errorf("Unexpected trace: %v", got.Trace)
		}
	})

	t.Run("Malformed JSON rejected", func(t *testing.T) {
		service := &stubAskService{envelope: envelope}
		handler := NewAskHandler(service, arbor.NewLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		handler.AskHandler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("Missing fields rejected", func(t *testing.T) {
		service := &stubAskService{envelope: envelope}
		handler := NewAskHandler(service, arbor.NewLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"query":"no document"}`))
		rec := httptest.NewRecorder()

		handler.AskHandler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("Wrong method rejected", func(t *testing.T) {
		service := &stubAskService{envelope: envelope}
		handler := NewAskHandler(service, arbor.NewLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/ask", nil)
		rec := httptest.NewRecorder()

		handler.AskHandler(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", rec.Code)
		}
	})

	t.Run("Pipeline error envelope still returns 200", func(t *testing.T) {
		service := &stubAskService{envelope: &models.ResponseEnvelope{
			Summary:   "error processing query: timeout",
			KeyPoints: []string{},
			IsSafe:    false,
			Trace:     []string{"Error encountered"},
			Error:     "error processing query: timeout",
		}}
		handler := NewAskHandler(service, arbor.NewLogger())

		body := `{"document_id":"doc_1","query":"query"}`
		req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.AskHandler(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200 for pipeline-level error, got %d", rec.Code)
		}
	})
}
