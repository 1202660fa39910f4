package verification

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/interfaces"
	"github.com/ternarybob/lectern/internal/models"
)

const editorSystemPrompt = "You are an editor. Take the response provided and format it into JSON. " +
	"Extract key points from the response. Return ONLY valid JSON with these exact keys: " +
	"'summary' (string), 'key_points' (array of strings), 'confidence_score' (float 0-1)."

// Confidence defaults per outcome: parsed-but-missing-field, local repair
// after a JSON parse failure, and provider error.
const (
	defaultConfidence  = 0.7
	fallbackConfidence = 0.5
)

// keyPointMaxChars bounds the single key point synthesized during local repair
const keyPointMaxChars = 200

// resultSchema constrains providers with native structured output support
var resultSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"summary": map[string]interface{}{
			"type": "string",
		},
		"key_points": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "string",
			},
		},
		"confidence_score": map[string]interface{}{
			"type":    "number",
			"minimum": 0.0,
			"maximum": 1.0,
		},
	},
	"required": []string{"summary", "key_points", "confidence_score"},
}

// providerResult mirrors the expected provider JSON with pointer fields so
// missing keys are distinguishable from zero values during the merge.
type providerResult struct {
	Summary         *string  `json:"summary"`
	KeyPoints       []string `json:"key_points"`
	ConfidenceScore *float64 `json:"confidence_score"`
}

// Service converts a draft answer into a schema-conformant VerifiedResult.
// It never returns an error: malformed provider output is repaired locally
// and provider failures degrade into a zero-confidence result.
type Service struct {
	llmService interfaces.LLMService
	logger     arbor.ILogger
}

// NewService creates a new verification service
func NewService(llmService interfaces.LLMService, logger arbor.ILogger) *Service {
	return &Service{
		llmService: llmService,
		logger:     logger,
	}
}

// Verify reformats the draft into the fixed three-field result. The context
// is carried for observability only; the provider sees the draft.
func (s *Service) Verify(ctx context.Context, draft, contextText string) models.VerifiedResult {
	s.logger.Debug().
		Int("draft_length", len(draft)).
		Int("context_length", len(contextText)).
		Msg("Verifying draft answer")

	messages := []interfaces.Message{
		{Role: "system", Content: editorSystemPrompt},
		{Role: "user", Content: "Response to format:\n\n" + draft},
	}

	raw, err := s.llmService.ChatStructured(ctx, messages, resultSchema)
	if err != nil {
		s.logger.Error().Err(err).Msg("Verification provider call failed")
		return models.VerifiedResult{
			Summary:         "Error: " + err.Error(),
			KeyPoints:       []string{},
			ConfidenceScore: 0,
		}
	}

	var parsed providerResult
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		s.logger.Warn().Err(err).Msg("Provider returned malformed JSON, repairing locally")
		return repairResult(draft)
	}

	return mergeWithDefaults(parsed, draft)
}

// mergeWithDefaults lays the provider output over the documented default
// record: summary defaults to the draft, key points to an empty sequence,
// confidence to 0.7. Confidence is clamped into [0,1].
func mergeWithDefaults(parsed providerResult, draft string) models.VerifiedResult {
	result := models.VerifiedResult{
		Summary:         draft,
		KeyPoints:       []string{},
		ConfidenceScore: defaultConfidence,
	}

	if parsed.Summary != nil {
		result.Summary = *parsed.Summary
	}
	if parsed.KeyPoints != nil {
		result.KeyPoints = parsed.KeyPoints
	}
	if parsed.ConfidenceScore != nil {
		result.ConfidenceScore = clamp(*parsed.ConfidenceScore, 0, 1)
	}

	return result
}

// repairResult builds a deterministic local result when the provider's JSON
// does not parse at all.
func repairResult(draft string) models.VerifiedResult {
	keyPoint := draft
	if len(keyPoint) > keyPointMaxChars {
		keyPoint = keyPoint[:keyPointMaxChars]
	}
	if keyPoint == "" {
		keyPoint = "No response generated"
	}

	return models.VerifiedResult{
		Summary:         draft,
		KeyPoints:       []string{keyPoint},
		ConfidenceScore: fallbackConfidence,
	}
}

// stripCodeFence removes a surrounding markdown code fence from model output
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
