package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model used for signal extraction. Extraction
// is a classification-grade task, so the lite tier is enough.
const DefaultModel = "gemini-2.5-flash-lite"

// GeminiAnalyzer implements Analyzer over the Gemini API.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer creates an analyzer. model may be empty to use
// DefaultModel.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiAnalyzer{client: client, model: model}, nil
}

// Analyze runs one extraction call and parses the JSON result.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, plainText string, meta Metadata) (*Analysis, error) {
	model := a.client.GenerativeModel(a.model)
	model.SetTemperature(0.1) // Low temperature for consistent output
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildAnalysisPrompt(plainText, meta)))
	if err != nil {
		return nil, fmt.Errorf("failed to analyze posting text: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, err
	}

	return parseAnalysis(cleanJSONBlock(text))
}

// Close releases resources held by the client.
func (a *GeminiAnalyzer) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

// buildAnalysisPrompt constructs the extraction prompt.
func buildAnalysisPrompt(plainText string, meta Metadata) string {
	var sb strings.Builder

	sb.WriteString("You are analyzing a job posting for concreteness signals.\n\n")
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	sb.WriteString("  \"skills\": [{\"name\": string}], // concrete technical or domain skills named in the text\n")
	sb.WriteString("  \"buzzwords\": {\"hits\": []string, \"count\": int}, // vague hype phrases like \"rockstar\", \"fast-paced\", \"wear many hats\"\n")
	sb.WriteString("  \"comp_period_detected\": bool // whether a pay period (hourly/annual/monthly) is stated\n")
	sb.WriteString("}\n\n")
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	if meta.Title != "" || meta.Company != "" {
		sb.WriteString(fmt.Sprintf("Posting: %s at %s\n\n", meta.Title, meta.Company))
	}
	sb.WriteString("Text:\n")
	sb.WriteString(plainText)

	return sb.String()
}

// parseAnalysis decodes the model's JSON output.
func parseAnalysis(raw string) (*Analysis, error) {
	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}
	if analysis.Buzzwords.Count == 0 {
		analysis.Buzzwords.Count = len(analysis.Buzzwords.Hits)
	}
	return &analysis, nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON responses.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
