package posting

import (
	"context"
	"fmt"

	"applytrack/internal/domain/models"

	"google.golang.org/genai"
)

// GeminiExtractor extracts postings with a Gemini model
type GeminiExtractor struct {
	client *genai.Client
	model  string
	prompt *Prompt
}

// NewGeminiExtractor creates a Gemini API client for the given key and model
func NewGeminiExtractor(ctx context.Context, apiKey, model string, prompt *Prompt) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiExtractor{
		client: client,
		model:  model,
		prompt: prompt,
	}, nil
}

// Name returns the provider name.
func (e *GeminiExtractor) Name() string {
	return "gemini"
}

// Extract asks for a JSON response and parses it
func (e *GeminiExtractor) Extract(ctx context.Context, text string) (*models.PostingExtraction, error) {
	genConfig := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(e.prompt.Temperature)),
		MaxOutputTokens:  int32(e.prompt.MaxTokens),
		ResponseMIMEType: "application/json",
	}
	if e.prompt.System != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(e.prompt.System, genai.RoleUser)
	}

	result, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(e.prompt.UserMessage(text)), genConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("gemini reply: no candidates in response")
	}

	extraction, err := ParseResponse(result.Text())
	if err != nil {
		return nil, fmt.Errorf("gemini reply: %w", err)
	}
	return extraction, nil
}
