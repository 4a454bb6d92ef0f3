package posting

import (
	"context"
	"fmt"
	"strings"

	"applytrack/internal/domain/models"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicExtractor extracts postings with a Claude model
type AnthropicExtractor struct {
	client *anthropic.Client
	model  string
	prompt *Prompt
}

// NewAnthropicExtractor creates an extractor for the given API key and model
func NewAnthropicExtractor(apiKey, model string, prompt *Prompt) (*AnthropicExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &AnthropicExtractor{
		client: &client,
		model:  model,
		prompt: prompt,
	}, nil
}

// Name returns the provider name.
func (e *AnthropicExtractor) Name() string {
	return "anthropic"
}

// Extract sends one message and parses the text blocks of the reply
func (e *AnthropicExtractor) Extract(ctx context.Context, text string) (*models.PostingExtraction, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: int64(e.prompt.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(e.prompt.UserMessage(text))),
		},
		Temperature: anthropic.Float(e.prompt.Temperature),
	}
	if e.prompt.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: e.prompt.System}}
	}

	message, err := e.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	var reply strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			reply.WriteString(block.Text)
		}
	}

	extraction, err := ParseResponse(reply.String())
	if err != nil {
		return nil, fmt.Errorf("anthropic reply: %w", err)
	}
	return extraction, nil
}
