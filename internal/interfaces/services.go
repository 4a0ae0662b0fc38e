// Package interfaces defines service contracts for the IPO engine
package interfaces

import (
	"context"

	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

// GenerateOptions are the caller inputs to one analysis run.
type GenerateOptions struct {
	CompanyName      string
	SubscriptionHint string // user-supplied subscription multiple, calibrates sentiment
	AttachmentPath   string // optional evidence document on disk
	AttachmentMIME   string // optional declared MIME type; inferred from extension when empty
	SourceURL        string // optional user-supplied prospectus URL
	UserID           string // optional, for the search log

	// OnProgress receives advisory checkpoint messages. May be nil.
	OnProgress func(message string)
}

// AnalysisService orchestrates report generation against the configured
// AI backend.
type AnalysisService interface {
	GenerateReport(ctx context.Context, opts GenerateOptions) (*models.Analysis, error)
}

// AssistantService answers grounded follow-up questions for one report.
// Failures are encoded as a fixed apology reply, never an error.
type AssistantService interface {
	Answer(ctx context.Context, report *models.Analysis, history []models.Message, question string) string
}

// InsightsService computes operational summaries over the search log.
type InsightsService interface {
	TopSearches(ctx context.Context, window, n int) ([]models.SearchCount, error)
}
