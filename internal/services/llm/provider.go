package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/common"
	"github.com/ternarybob/lectern/internal/interfaces"
	"google.golang.org/genai"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
)

// Service implements interfaces.LLMService over the configured cloud
// providers. Chat completions go to the default provider; embeddings always
// go to Gemini (Claude exposes no embeddings API).
//
// Every provider call is a single attempt. There is no retry or backoff
// layer here: the pipeline stages own the degrade-or-abort decision, and a
// retried call would blur which stage a failure belongs to.
type Service struct {
	geminiConfig *common.GeminiConfig
	claudeConfig *common.ClaudeConfig
	llmConfig    *common.LLMConfig
	logger       arbor.ILogger
	geminiClient *genai.Client
	claudeClient anthropic.Client
	claudeAPIKey string
}

// Compile-time assertion
var _ interfaces.LLMService = (*Service)(nil)

// NewService creates a new LLM service over the configured providers
func NewService(config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		geminiConfig: &config.Gemini,
		claudeConfig: &config.Claude,
		llmConfig:    &config.LLM,
		logger:       logger,
	}
}

// DetectProvider determines the provider type from a model string.
// Model strings can be:
// - "claude-haiku-3-5-20241022" -> Claude
// - "claude/claude-haiku-3-5-20241022" -> Claude (with prefix)
// - "gemini-2.0-flash" -> Gemini
// - Empty string -> uses default provider from config
func (s *Service) DetectProvider(model string) ProviderType {
	if model == "" {
		return ProviderType(s.llmConfig.DefaultProvider)
	}

	model = strings.ToLower(model)

	if strings.HasPrefix(model, "claude/") || strings.HasPrefix(model, "anthropic/") {
		return ProviderClaude
	}
	if strings.HasPrefix(model, "gemini/") || strings.HasPrefix(model, "google/") {
		return ProviderGemini
	}

	if strings.HasPrefix(model, "claude-") {
		return ProviderClaude
	}
	if strings.HasPrefix(model, "gemini-") {
		return ProviderGemini
	}

	return ProviderType(s.llmConfig.DefaultProvider)
}

// getGeminiClient returns a Gemini client, creating one if necessary
func (s *Service) getGeminiClient(ctx context.Context) (*genai.Client, error) {
	if s.geminiClient != nil {
		return s.geminiClient, nil
	}

	apiKey, err := common.ResolveAPIKey("LECTERN_GEMINI_API_KEY", s.geminiConfig.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Gemini API key: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	s.geminiClient = client
	return client, nil
}

// getClaudeClient returns a Claude client, creating one if necessary
func (s *Service) getClaudeClient() (anthropic.Client, error) {
	if s.claudeAPIKey != "" {
		return s.claudeClient, nil
	}

	apiKey, err := common.ResolveAPIKey("LECTERN_CLAUDE_API_KEY", s.claudeConfig.APIKey)
	if err != nil {
		return anthropic.Client{}, fmt.Errorf("failed to resolve Anthropic API key: %w", err)
	}

	s.claudeClient = anthropic.NewClient(option.WithAPIKey(apiKey))
	s.claudeAPIKey = apiKey
	return s.claudeClient, nil
}

// Chat generates a completion using the default provider
func (s *Service) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return s.generate(ctx, messages, nil)
}

// ChatStructured generates a completion constrained to structured JSON output.
// Gemini enforces the schema natively via ResponseSchema; Claude relies on the
// instruction content of the messages.
func (s *Service) ChatStructured(ctx context.Context, messages []interfaces.Message, schema map[string]interface{}) (string, error) {
	return s.generate(ctx, messages, schema)
}

func (s *Service) generate(ctx context.Context, messages []interfaces.Message, schema map[string]interface{}) (string, error) {
	provider := ProviderType(s.llmConfig.DefaultProvider)

	s.logger.Debug().
		Str("provider", string(provider)).
		Int("message_count", len(messages)).
		Bool("structured", schema != nil).
		Msg("Generating content with provider")

	switch provider {
	case ProviderClaude:
		return s.generateWithClaude(ctx, messages)
	default:
		return s.generateWithGemini(ctx, messages, schema)
	}
}

// generateWithClaude generates content using the Claude API
func (s *Service) generateWithClaude(ctx context.Context, messages []interfaces.Message) (string, error) {
	client, err := s.getClaudeClient()
	if err != nil {
		return "", err
	}

	claudeMessages, systemText, err := convertMessagesToClaude(messages)
	if err != nil {
		return "", fmt.Errorf("failed to convert messages: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.claudeConfig.Model),
		MaxTokens: int64(s.claudeConfig.MaxTokens),
		Messages:  claudeMessages,
	}

	if s.claudeConfig.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.claudeConfig.Temperature))
	}

	if systemText != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemText},
		}
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("Claude API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return "", fmt.Errorf("empty response from Claude API")
	}

	return text.String(), nil
}

// generateWithGemini generates content using the Gemini API
func (s *Service) generateWithGemini(ctx context.Context, messages []interfaces.Message, schema map[string]interface{}) (string, error) {
	client, err := s.getGeminiClient(ctx)
	if err != nil {
		return "", err
	}

	geminiContents, systemText, err := convertMessagesToGemini(messages)
	if err != nil {
		return "", fmt.Errorf("failed to convert messages: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.geminiConfig.Temperature),
	}

	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}

	// When a schema is provided, Gemini enforces JSON output matching it
	if len(schema) > 0 {
		genaiSchema, err := convertToGenaiSchema(schema)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to convert output schema")
			// Continue without schema rather than failing
		} else if genaiSchema != nil {
			config.ResponseMIMEType = "application/json"
			config.ResponseSchema = genaiSchema
		}
	}

	resp, err := client.Models.GenerateContent(ctx, s.geminiConfig.Model, geminiContents, config)
	if err != nil {
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}

	responseText := resp.Text()
	if responseText == "" {
		return "", fmt.Errorf("empty text in Gemini response")
	}

	return responseText, nil
}

// Embed generates an embedding vector for the given text using the Gemini
// embedding model with the configured output dimensionality.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty for embedding generation")
	}

	client, err := s.getGeminiClient(ctx)
	if err != nil {
		return nil, err
	}

	outputDim := int32(s.geminiConfig.EmbedDimension)
	embeddingConfig := &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	}

	result, err := client.Models.EmbedContent(ctx, s.geminiConfig.EmbedModel,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, embeddingConfig)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	var embedding []float32
	if result != nil && len(result.Embeddings) > 0 {
		embedding = result.Embeddings[0].Values
	}

	if embedding == nil {
		return nil, fmt.Errorf("no embedding returned from API")
	}

	if len(embedding) != s.geminiConfig.EmbedDimension {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.geminiConfig.EmbedDimension, len(embedding))
	}

	return embedding, nil
}

// EmbedDimension returns the configured embedding vector dimension
func (s *Service) EmbedDimension() int {
	return s.geminiConfig.EmbedDimension
}

// Close closes all provider clients
func (s *Service) Close() error {
	s.geminiClient = nil
	s.claudeClient = anthropic.Client{} // Reset to zero value
	s.claudeAPIKey = ""
	return nil
}
