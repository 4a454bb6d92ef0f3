package posting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"applytrack/internal/config"
	"applytrack/internal/domain"
	"applytrack/internal/domain/models"
	"applytrack/internal/domain/services"
)

// NewExtractor builds the extractor named by cfg.ExtractionProvider.
//
// Supported providers:
//   - "anthropic" - Claude models via the Anthropic API
//   - "gemini" - Gemini models via the Gemini API
//   - "openrouter" - any model routed through OpenRouter
//   - "none" - extraction disabled
//
// A provider without an API key falls back to the disabled extractor so the
// rest of the API keeps working.
func NewExtractor(ctx context.Context, cfg *config.Config, prompt *Prompt, logger *slog.Logger) (services.PostingExtractor, error) {
	var (
		extractor services.PostingExtractor
		err       error
	)

	switch cfg.ExtractionProvider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return disabledWithWarning(logger, cfg.ExtractionProvider, "ANTHROPIC_API_KEY"), nil
		}
		extractor, err = NewAnthropicExtractor(cfg.AnthropicAPIKey, cfg.ExtractionModel, prompt)

	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return disabledWithWarning(logger, cfg.ExtractionProvider, "GEMINI_API_KEY"), nil
		}
		extractor, err = NewGeminiExtractor(ctx, cfg.GeminiAPIKey, cfg.ExtractionModel, prompt)

	case "openrouter":
		if cfg.OpenRouterAPIKey == "" {
			return disabledWithWarning(logger, cfg.ExtractionProvider, "OPENROUTER_API_KEY"), nil
		}
		extractor, err = NewOpenRouterExtractor(cfg.OpenRouterAPIKey, cfg.ExtractionModel, "", prompt)

	case "none", "":
		return Disabled{}, nil

	default:
		return nil, fmt.Errorf("unsupported extraction provider: %s", cfg.ExtractionProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s extractor: %w", cfg.ExtractionProvider, err)
	}

	logger.Info("posting extraction configured",
		"provider", extractor.Name(),
		"model", cfg.ExtractionModel,
	)
	return extractor, nil
}

func disabledWithWarning(logger *slog.Logger, provider, envVar string) services.PostingExtractor {
	logger.Warn("posting extraction disabled: API key not set",
		"provider", provider,
		"env", envVar,
	)
	return Disabled{}
}

// Disabled is the extractor used when no provider is configured
type Disabled struct{}

// Name returns the provider name.
func (Disabled) Name() string { return "none" }

// Extract always fails with a BackendError
func (Disabled) Extract(context.Context, string) (*models.PostingExtraction, error) {
	return nil, domain.NewBackendError("extraction", errors.New("posting extraction is not configured on this server"))
}
