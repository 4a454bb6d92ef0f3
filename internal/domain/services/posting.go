package services

import (
	"context"

	"applytrack/internal/domain/models"
)

// PostingExtractor turns pasted posting text into structured fields.
// Implementations wrap one LLM provider.
type PostingExtractor interface {
	Extract(ctx context.Context, text string) (*models.PostingExtraction, error)
	Name() string
}

// PostingService validates posting text and normalizes extractor output
type PostingService interface {
	ParsePosting(ctx context.Context, userID, text string) (*models.PostingExtraction, error)
}
