package posting

import (
	"context"
	"fmt"
	"time"

	"applytrack/internal/domain/models"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// DefaultOpenRouterURL is the OpenRouter chat completions API base
const DefaultOpenRouterURL = "https://openrouter.ai/api/v1"

// OpenRouterExtractor extracts postings through OpenRouter's chat completions API
type OpenRouterExtractor struct {
	client *resty.Client
	model  string
	prompt *Prompt
}

// NewOpenRouterExtractor creates an extractor. baseURL is overridable for tests.
func NewOpenRouterExtractor(apiKey, model, baseURL string, prompt *Prompt) (*OpenRouterExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if baseURL == "" {
		baseURL = DefaultOpenRouterURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(extractionTimeout)

	return &OpenRouterExtractor{
		client: client,
		model:  model,
		prompt: prompt,
	}, nil
}

// Name returns the provider name.
func (e *OpenRouterExtractor) Name() string {
	return "openrouter"
}

// Extract posts one chat completion and parses the first choice
func (e *OpenRouterExtractor) Extract(ctx context.Context, text string) (*models.PostingExtraction, error) {
	messages := []map[string]string{
		{"role": "user", "content": e.prompt.UserMessage(text)},
	}
	if e.prompt.System != "" {
		messages = append([]map[string]string{{"role": "system", "content": e.prompt.System}}, messages...)
	}

	start := time.Now()
	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"model":           e.model,
			"messages":        messages,
			"max_tokens":      e.prompt.MaxTokens,
			"temperature":     e.prompt.Temperature,
			"response_format": map[string]string{"type": "json_object"},
		}).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("openrouter API call failed: %w", err)
	}
	if resp.IsError() {
		msg := gjson.Get(resp.String(), "error.message").String()
		if msg == "" {
			msg = resp.Status()
		}
		return nil, fmt.Errorf("openrouter API call failed (%d after %s): %s", resp.StatusCode(), time.Since(start).Round(time.Millisecond), msg)
	}

	content := gjson.Get(resp.String(), "choices.0.message.content").String()
	if content == "" {
		return nil, fmt.Errorf("openrouter reply: no choices in response")
	}

	extraction, err := ParseResponse(content)
	if err != nil {
		return nil, fmt.Errorf("openrouter reply: %w", err)
	}
	return extraction, nil
}
