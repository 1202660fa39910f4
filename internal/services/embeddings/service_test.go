package embeddings

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/interfaces"
)

type mockLLM struct {
	embedding []float32
	err       error
	lastText  string
}

func (m *mockLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	m.lastText = text
	return m.embedding, m.err
}

func (m *mockLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockLLM) ChatStructured(ctx context.Context, messages []interfaces.Message, schema map[string]interface{}) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockLLM) EmbedDimension() int { return len(m.embedding) }
func (m *mockLLM) Close() error        { return nil }

func TestService_GenerateEmbedding(t *testing.T) {
	t.Run("Newlines collapsed to spaces", func(t *testing.T) {
		mock := &mockLLM{embedding: []float32{0.1, 0.2}}
		service := NewService(mock, 0, arbor.NewLogger())

		_, err := service.GenerateEmbedding(context.Background(), "line one\nline two\nline three")
		if err != nil {
			t.Fatalf("GenerateEmbedding failed: %v", err)
		}

		if strings.Contains(mock.lastText, "\n") {
			t.Errorf("Expected newlines collapsed, provider saw %q", mock.lastText)
		}
		if mock.lastText != "line one line two line three" {
			t.Errorf("Unexpected normalized text: %q", mock.lastText)
		}
	})

	t.Run("Empty text rejected", func(t *testing.T) {
		mock := &mockLLM{embedding: []float32{0.1}}
		service := NewService(mock, 0, arbor.NewLogger())

		_, err := service.GenerateEmbedding(context.Background(), "")
		if err == nil {
			t.Fatal("Expected error for empty text")
		}
	})

	t.Run("Provider error wrapped", func(t *testing.T) {
		mock := &mockLLM{err: errors.New("quota exceeded")}
		service := NewService(mock, 0, arbor.NewLogger())

		_, err := service.GenerateEmbedding(context.Background(), "text")
		if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
			t.Fatalf("Expected wrapped provider error, got %v", err)
		}
	})

	t.Run("Empty embedding rejected", func(t *testing.T) {
		mock := &mockLLM{embedding: []float32{}}
		service := NewService(mock, 0, arbor.NewLogger())

		_, err := service.GenerateEmbedding(context.Background(), "text")
		if err == nil {
			t.Fatal("Expected error for empty embedding")
		}
	})

	t.Run("Cancelled context aborts wait", func(t *testing.T) {
		mock := &mockLLM{embedding: []float32{0.1}}
		service := NewService(mock, 0, arbor.NewLogger())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := service.GenerateEmbedding(ctx, "text")
		if err == nil {
			t.Fatal("Expected error for cancelled context")
		}
	})
}
