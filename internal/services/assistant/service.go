// Package assistant provides grounded follow-up question answering against
// a generated analysis report.
package assistant

import (
	"context"
	"fmt"

	"github.com/JasperZhi/hk-ipo-engine/internal/common"
	"github.com/JasperZhi/hk-ipo-engine/internal/interfaces"
	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

// ApologyReply is returned in place of an answer whenever the backend call
// fails. A failed follow-up must never destabilize an open session, so this
// layer swallows all failure kinds.
const ApologyReply = "抱歉，分析服务暂时繁忙，请稍后再试。"

// Service implements AssistantService
type Service struct {
	backend interfaces.AnalysisBackend
	logger  *common.Logger
}

// NewService creates a new assistant service
func NewService(backend interfaces.AnalysisBackend, logger *common.Logger) *Service {
	return &Service{
		backend: backend,
		logger:  logger,
	}
}

// Answer answers one grounded follow-up question. Never returns an error;
// any failure is encoded as the fixed apology reply.
func (s *Service) Answer(ctx context.Context, report *models.Analysis, history []models.Message, question string) string {
	reply, err := s.backend.AnswerFollowUp(ctx, report, history, question)
	if err != nil {
		s.logger.Warn().Err(err).Str("company", report.CompanyName).Msg("Follow-up answer failed")
		return ApologyReply
	}
	if reply == "" {
		return ApologyReply
	}
	return reply
}

// Greeting builds the assistant message that seeds a new session.
func Greeting(companyName string) string {
	return fmt.Sprintf("您好！我是您的投研助手。关于 %s 的报告，您有什么需要补充了解的吗？比如“竞品对比”或“财务亮点”？", companyName)
}

// Ensure Service implements AssistantService
var _ interfaces.AssistantService = (*Service)(nil)
