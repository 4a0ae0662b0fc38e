// Package analysis orchestrates report generation against the configured
// AI backend: prompt construction, attachment evidence, response sanitation,
// and evidentiary source merging.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JasperZhi/hk-ipo-engine/internal/common"
	"github.com/JasperZhi/hk-ipo-engine/internal/interfaces"
	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

// Progress checkpoint messages, advisory only.
const (
	ProgressProcessingAttachment = "正在读取并处理文档 (Reading & Processing Document)..."
	ProgressContactingBackend    = "正在联网检索官方披露 (Contacting Analysis Backend)..."
)

// statusError is implemented by backend client errors that carry an HTTP
// status and the response payload verbatim.
type statusError interface {
	error
	HTTPStatus() int
	ResponsePayload() string
}

// Service implements AnalysisService
type Service struct {
	backend  interfaces.AnalysisBackend
	searches interfaces.SearchLogStore // optional, nil disables logging
	logger   *common.Logger
}

// NewService creates a new analysis service
func NewService(backend interfaces.AnalysisBackend, searches interfaces.SearchLogStore, logger *common.Logger) *Service {
	return &Service{
		backend:  backend,
		searches: searches,
		logger:   logger,
	}
}

// GenerateReport runs one full orchestration: validate input, load evidence,
// issue exactly one backend request, sanitize the response against the
// schema contract, and merge evidentiary sources.
func (s *Service) GenerateReport(ctx context.Context, opts interfaces.GenerateOptions) (*models.Analysis, error) {
	companyName := strings.TrimSpace(opts.CompanyName)
	if companyName == "" {
		return nil, &ValidationError{Field: "companyName", Reason: "must not be empty"}
	}

	s.logger.Info().Str("company", companyName).Msg("Generating analysis report")

	var attachment *interfaces.AttachmentPart
	if opts.AttachmentPath != "" {
		notify(opts.OnProgress, ProgressProcessingAttachment)
		part, err := loadAttachment(opts.AttachmentPath, opts.AttachmentMIME)
		if err != nil {
			return nil, &AttachmentError{Path: opts.AttachmentPath, Err: err}
		}
		attachment = part
	}

	notify(opts.OnProgress, ProgressContactingBackend)

	result, err := s.backend.GenerateAnalysis(ctx, &interfaces.AnalysisRequest{
		Prompt:     buildAnalysisPrompt(companyName, opts.SubscriptionHint, opts.SourceURL, attachment != nil),
		Attachment: attachment,
	})
	if err != nil {
		return nil, wrapBackendError(err)
	}

	clean := stripCodeFences(result.Text)

	var report models.Analysis
	if err := json.Unmarshal([]byte(clean), &report); err != nil {
		s.logger.Error().Err(err).Str("company", companyName).Msg("Backend response failed JSON parse")
		return nil, &SchemaViolationError{RawText: result.Text, Err: err}
	}
	report.Sanitize()

	report.AppendSources(result.GroundingSources...)
	if isAbsoluteURL(opts.SourceURL) {
		report.AppendSources(opts.SourceURL)
	}

	// Completion time always wins over any backend-supplied value.
	report.LastUpdated = time.Now().Format(time.RFC3339)

	s.logSearch(ctx, &report, opts.UserID)

	s.logger.Info().
		Str("company", report.CompanyName).
		Str("code", report.StockCode).
		Int("sources", len(report.DataSources)).
		Msg("Analysis report generated")

	return &report, nil
}

// logSearch appends to the search log. Best effort: a log failure never
// fails the report.
func (s *Service) logSearch(ctx context.Context, report *models.Analysis, userID string) {
	if s.searches == nil {
		return
	}
	record := &models.SearchRecord{
		ID:          uuid.NewString(),
		CompanyName: report.CompanyName,
		StockCode:   report.StockCode,
		UserID:      userID,
		CreatedAt:   time.Now(),
	}
	if err := s.searches.SaveSearch(ctx, record); err != nil {
		s.logger.Warn().Err(err).Str("company", report.CompanyName).Msg("Failed to log search")
	}
}

func notify(onProgress func(string), message string) {
	if onProgress != nil {
		onProgress(message)
	}
}

// wrapBackendError converts a client failure into a BackendError, lifting
// status and payload when the client error carries them.
func wrapBackendError(err error) error {
	var se statusError
	if errors.As(err, &se) {
		return &BackendError{Status: se.HTTPStatus(), Payload: se.ResponsePayload(), Err: err}
	}
	return &BackendError{Err: err}
}

// isAbsoluteURL reports whether s looks like an absolute http(s) URI.
func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Ensure Service implements AnalysisService
var _ interfaces.AnalysisService = (*Service)(nil)
