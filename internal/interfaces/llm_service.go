package interfaces

import "context"

// Message represents a single message in a model conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// LLMService defines the interface for language model operations: embedding
// generation and chat completions. Implementations wrap cloud providers
// (Gemini, Claude) behind a single provider-agnostic surface.
//
// Calls are single-attempt: implementations perform no internal retry or
// backoff. A failed provider round trip surfaces as an error, and each
// pipeline stage decides whether to degrade or abort. Cancellation and
// timeout are controlled entirely through the supplied context.
type LLMService interface {
	// Embed generates a fixed-dimension embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Chat generates a completion response from the conversation history.
	// The messages slice should contain the full context in chronological
	// order, including any system instruction.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatStructured generates a completion constrained to structured JSON
	// output. The schema is a JSON-schema-shaped map; providers that support
	// native response schemas enforce it, others fall back to instruction
	// steering. The returned string is the raw model text and is not
	// guaranteed to parse.
	ChatStructured(ctx context.Context, messages []Message, schema map[string]interface{}) (string, error)

	// EmbedDimension returns the configured embedding vector dimension.
	EmbedDimension() int

	// Close releases provider clients and resources.
	Close() error
}
