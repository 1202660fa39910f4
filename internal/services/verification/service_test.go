package verification

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/interfaces"
)

type mockLLM struct {
	response string
	err      error
	schema   map[string]interface{}
}

func (m *mockLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("not implemented")
}

func (m *mockLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return m.response, m.err
}

func (m *mockLLM) ChatStructured(ctx context.Context, messages []interfaces.Message, schema map[string]interface{}) (string, error) {
	m.schema = schema
	return m.response, m.err
}

func (m *mockLLM) EmbedDimension() int { return 0 }
func (m *mockLLM) Close() error        { return nil }

func TestService_Verify(t *testing.T) {
	t.Run("Well-formed provider output passes through", func(t *testing.T) {
		mock := &mockLLM{response: `{"summary":"Revenue grew 10%.","key_points":["Q3 up","Q4 flat"],"confidence_score":0.92}`}
		service := NewService(mock, arbor.NewLogger())

		result := service.Verify(context.Background(), "draft text", "context text")

		if result.Summary != "Revenue grew 10%." {
			t.Errorf("Unexpected summary: %q", result.Summary)
		}
		if len(result.KeyPoints) != 2 {
			t.Errorf("Expected 2 key points, got %d", len(result.KeyPoints))
		}
		if result.ConfidenceScore != 0.92 {
			t.Errorf("Expected confidence 0.92, got %v", result.ConfidenceScore)
		}
	})

	t.Run("Missing fields backfilled with defaults", func(t *testing.T) {
		mock := &mockLLM{response: `{"summary":"Only a summary."}`}
		service := NewService(mock, arbor.NewLogger())

		result := service.Verify(context.Background(), "the draft", "")

		if result.Summary != "Only a summary." {
			t.Errorf("Expected provider summary kept, got %q", result.Summary)
		}
		if result.KeyPoints == nil || len(result.KeyPoints) != 0 {
			t.Errorf("Expected empty key points, got %v", result.KeyPoints)
		}
		if result.ConfidenceScore != 0.7 {
			t.Errorf("Expected default confidence 0.7, got %v", result.ConfidenceScore)
		}
	})

	t.Run("All fields missing defaults to draft", func(t *testing.T) {
		mock := &mockLLM{response: `{}`}
		service := NewService(mock, arbor.NewLogger())

		result := service.Verify(context.Background(), "the draft", "")

		if result.Summary != "the draft" {
			t.Errorf("Expected draft as summary, got %q", result.Summary)
		}
		if result.ConfidenceScore != 0.7 {
			t.Errorf("Expected default confidence 0.7, got %v", result.ConfidenceScore)
		}
	})

	t.Run("Malformed JSON repaired locally", func(t *testing.T) {
		mock := &mockLLM{response: "this is not json at all"}
		service := NewService(mock, arbor.NewLogger())

		result := service.Verify(context.Background(), "the raw draft", "")

		if result.Summary != "the raw draft" {
			t.Errorf("Expected draft as summary, got %q", result.Summary)
		}
		if len(result.KeyPoints) != 1 || result.KeyPoints[0] != "the raw draft" {
			t.Errorf("Expected single key point from draft, got %v", result.KeyPoints)
		}
		if result.ConfidenceScore != 0.5 {
			t.Errorf("Expected fallback confidence 0.5, got %v", result.ConfidenceScore)
		}
	})

	t.Run("Repair truncates long draft key point", func(t *testing.T) {
		mock := &mockLLM{response: "not json"}
		service := NewService(mock, arbor.NewLogger())
		longDraft := strings.Repeat("a", 500)

		result := service.Verify(context.Background(), longDraft, "")

		if len(result.KeyPoints) != 1 || len(result.KeyPoints[0]) != 200 {
			t.Errorf("Expected key point truncated to 200 chars, got %d", len(result.KeyPoints[0]))
		}
	})

	t.Run("Repair of empty draft synthesizes key point", func(t *testing.T) {
		mock := &mockLLM{response: "not json"}
		service := NewService(mock, arbor.NewLogger())

		result := service.Verify(context.Background(), "", "")

		if len(result.KeyPoints) != 1 || result.KeyPoints[0] != "No response generated" {
			t.Errorf("Expected placeholder key point, got %v", result.KeyPoints)
		}
	})

	t.Run("Code fence stripped before parsing", func(t *testing.T) {
		mock := &mockLLM{response: "```json\n{\"summary\":\"fenced\",\"key_points\":[],\"confidence_score\":0.8}\n```"}
		service := NewService(mock, arbor.NewLogger())

		result := service.Verify(context.Background(), "draft", "")

		if result.Summary != "fenced" {
			t.Errorf("Expected fenced JSON parsed, got summary %q", result.Summary)
		}
	})

	t.Run("Provider error yields zero confidence", func(t *testing.T) {
		mock := &mockLLM{err: errors.New("timeout")}
		service := NewService(mock, arbor.NewLogger())

		result := service.Verify(context.Background(), "draft", "")

		if !strings.HasPrefix(result.Summary, "Error: ") {
			t.Errorf("Expected error summary, got %q", result.Summary)
		}
		if len(result.KeyPoints) != 0 {
			t.Errorf("Expected no key points, got %v", result.KeyPoints)
		}
		if result.ConfidenceScore != 0 {
			t.Errorf("Expected zero confidence, got %v", result.ConfidenceScore)
		}
	})

	t.Run("Out-of-range confidence clamped", func(t *testing.T) {
		mock := &mockLLM{response: `{"summary":"s","key_points":[],"confidence_score":1.8}`}
		service := NewService(mock, arbor.NewLogger())

		result := service.Verify(context.Background(), "draft", "")

		if result.ConfidenceScore != 1 {
			t.Errorf("Expected confidence clamped to 1, got %v", result.ConfidenceScore)
		}
	})

	t.Run("Schema passed to provider", func(t *testing.T) {
		mock := &mockLLM{response: `{}`}
		service := NewService(mock, arbor.NewLogger())

		service.Verify(context.Background(), "draft", "")

		if mock.schema == nil {
			t.Fatal("Expected response schema passed to provider")
		}
		props, ok := mock.schema["properties"].(map[string]interface{})
		if !ok {
			t.Fatal("Expected properties in schema")
		}
		for _, key := range []string{"summary", "key_points", "confidence_score"} {
			if _, found := props[key]; !found {
				t.Errorf("Expected %q in schema properties", key)
			}
		}
	})
}
