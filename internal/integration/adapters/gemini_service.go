package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/cdr-billing/backend/internal/application/adapter"
)

// GeminiService implements the adapter.AIService using Google Gemini.
type GeminiService struct {
	apiKey    string
	modelName string
}

// NewGeminiService creates a new Gemini service instance.
func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		apiKey:    apiKey,
		modelName: "gemini-2.5-flash-lite",
	}
}

// IsAvailable checks if the Gemini service is configured.
func (s *GeminiService) IsAvailable() bool {
	return s.apiKey != ""
}

// geminiSuggestion mirrors the JSON shape requested from the model.
type geminiSuggestion struct {
	CallType          string   `json:"call_type"`
	SuggestedCategory string   `json:"suggested_category"`
	Patterns          []string `json:"patterns"`
	Confidence        float64  `json:"confidence"`
	Reasoning         string   `json:"reasoning"`
}

// SuggestPatterns asks Gemini to map unmatched call types to categories.
func (s *GeminiService) SuggestPatterns(ctx context.Context, callTypes []string, categoryNames []string) ([]adapter.PatternSuggestion, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("gemini service is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelName)
	model.SetTemperature(0.3)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(s.buildPrompt(callTypes, categoryNames)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	suggestions, err := s.parseResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return suggestions, nil
}

// buildPrompt creates the prompt for Gemini.
func (s *GeminiService) buildPrompt(callTypes []string, categoryNames []string) string {
	var sb strings.Builder

	sb.WriteString(`You are an expert in telephone billing. The system classifies raw CDR call-type strings into priced categories by case-insensitive substring matching.

For each unmatched call-type string below, propose:
1. "suggested_category": the best fit among the existing categories listed below.
2. "patterns": one or two short uppercase substrings that would match this call type and similar ones, specific enough to avoid false positives.
3. "confidence": a number between 0 and 1.
4. "reasoning": one short sentence.

Respond ONLY with a JSON array of objects with keys call_type, suggested_category, patterns, confidence, reasoning.

EXISTING CATEGORIES:
`)
	sb.WriteString(strings.Join(categoryNames, ", "))
	sb.WriteString("\n\nUNMATCHED CALL TYPES:\n")
	for _, ct := range callTypes {
		sb.WriteString("- ")
		sb.WriteString(ct)
		sb.WriteString("\n")
	}
	return sb.String()
}

// parseResponse extracts the suggestions from the model output.
func (s *GeminiService) parseResponse(resp *genai.GenerateContentResponse) ([]adapter.PatternSuggestion, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	raw := strings.TrimSpace(sb.String())
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var parsed []geminiSuggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("response is not a valid suggestion array: %w", err)
	}

	suggestions := make([]adapter.PatternSuggestion, 0, len(parsed))
	for _, p := range parsed {
		if p.CallType == "" || len(p.Patterns) == 0 {
			continue
		}
		suggestions = append(suggestions, adapter.PatternSuggestion{
			CallType:          p.CallType,
			SuggestedCategory: p.SuggestedCategory,
			Patterns:          p.Patterns,
			Confidence:        p.Confidence,
			Reasoning:         p.Reasoning,
		})
	}
	return suggestions, nil
}
