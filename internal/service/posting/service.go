// Package posting extracts application fields from pasted job-posting text
// using a configured LLM provider.
package posting

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"applytrack/internal/config"
	"applytrack/internal/domain"
	"applytrack/internal/domain/models"
	"applytrack/internal/domain/services"
)

const extractionTimeout = 60 * time.Second

// Service implements services.PostingService
type Service struct {
	extractor services.PostingExtractor
	defaults  Defaults
	logger    *slog.Logger
}

// NewService creates a posting service over one extractor
func NewService(extractor services.PostingExtractor, prompt *Prompt, logger *slog.Logger) *Service {
	return &Service{
		extractor: extractor,
		defaults:  prompt.Defaults,
		logger:    logger,
	}
}

var _ services.PostingService = (*Service)(nil)

// ParsePosting validates the text, calls the extractor and normalizes its output.
// Provider failures and unusable output surface as a BackendError the client may retry.
func (s *Service) ParsePosting(ctx context.Context, userID, text string) (*models.PostingExtraction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &domain.ValidationError{Message: "text: cannot be blank", Field: "text"}
	}
	if runes := []rune(text); len(runes) > config.MaxPostingTextLength {
		s.logger.Debug("posting text truncated", "user_id", userID, "length", len(runes))
		text = string(runes[:config.MaxPostingTextLength])
	}

	ctx, cancel := context.WithTimeout(ctx, extractionTimeout)
	defer cancel()

	start := time.Now()
	extraction, err := s.extractor.Extract(ctx, text)
	if err != nil {
		s.logger.Warn("posting extraction failed",
			"provider", s.extractor.Name(),
			"user_id", userID,
			"duration", time.Since(start),
			"error", err,
		)
		var backendErr *domain.BackendError
		if errors.As(err, &backendErr) {
			return nil, err
		}
		return nil, domain.NewBackendError("extraction", err)
	}

	result := s.normalize(extraction)
	if result.Role == "" && result.Company == "" {
		s.logger.Warn("posting extraction returned no role or company",
			"provider", s.extractor.Name(),
			"user_id", userID,
		)
		return nil, domain.NewBackendError("extraction", errors.New("could not find a role or company in the posting"))
	}

	s.logger.Info("posting extracted",
		"provider", s.extractor.Name(),
		"user_id", userID,
		"skills", len(result.Skills),
		"duration", time.Since(start),
	)
	return result, nil
}

// normalize trims every field, fills defaults and cleans the skill list
func (s *Service) normalize(in *models.PostingExtraction) *models.PostingExtraction {
	out := &models.PostingExtraction{
		Role:               strings.TrimSpace(in.Role),
		Company:            strings.TrimSpace(in.Company),
		Location:           strings.TrimSpace(in.Location),
		ExperienceRequired: strings.TrimSpace(in.ExperienceRequired),
		Remote:             in.Remote,
		Notes:              strings.TrimSpace(in.Notes),
		Skills:             []string{},
	}
	if out.ExperienceRequired == "" {
		out.ExperienceRequired = s.defaults.ExperienceRequired
	}
	if out.ExperienceRequired == "" {
		out.ExperienceRequired = models.DefaultExperience
	}

	limit := s.defaults.MaxSkills
	if limit <= 0 || limit > config.MaxSkills {
		limit = config.MaxSkills
	}
	seen := map[string]bool{}
	for _, skill := range in.Skills {
		skill = strings.TrimSpace(skill)
		key := strings.ToLower(skill)
		if skill == "" || seen[key] {
			continue
		}
		seen[key] = true
		out.Skills = append(out.Skills, skill)
		if len(out.Skills) == limit {
			break
		}
	}
	return out
}
