// Package interfaces defines service contracts for the IPO engine
package interfaces

import (
	"context"

	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

// AnalysisRequest is the backend-agnostic request for a full analysis.
type AnalysisRequest struct {
	Prompt     string
	Attachment *AttachmentPart // optional inline evidence
}

// AttachmentPart is an inline binary evidence part.
type AttachmentPart struct {
	Data     []byte
	MIMEType string
}

// AnalysisResult is the raw backend response before schema validation.
type AnalysisResult struct {
	Text string
	// GroundingSources are citation URIs returned by web-retrieval-capable
	// backends. Empty for backends without live retrieval.
	GroundingSources []string
}

// AnalysisBackend produces schema-shaped analysis reports and answers
// grounded follow-up questions. Gemini and DeepSeek are interchangeable
// implementations selected by configuration.
type AnalysisBackend interface {
	// GenerateAnalysis issues one request and returns the raw JSON text
	// plus any grounding source URIs the backend reported.
	GenerateAnalysis(ctx context.Context, req *AnalysisRequest) (*AnalysisResult, error)

	// AnswerFollowUp answers a question grounded in the given report and
	// prior conversation turns.
	AnswerFollowUp(ctx context.Context, report *models.Analysis, history []models.Message, question string) (string, error)
}
