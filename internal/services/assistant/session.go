package assistant

import (
	"context"
	"strings"
	"sync"

	"github.com/JasperZhi/hk-ipo-engine/internal/interfaces"
	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

// Session is one research assistant conversation scoped to a single report.
// It holds the report as immutable grounding data and an append-only,
// chronologically ordered message list. A session is either idle (no report)
// or active; it has no persistence and is discarded when the view closes.
type Session struct {
	svc interfaces.AssistantService

	mu       sync.Mutex
	report   *models.Analysis
	messages []models.Message
	busy     bool
}

// NewSession creates an idle session bound to an assistant service.
func NewSession(svc interfaces.AssistantService) *Session {
	return &Session{svc: svc}
}

// Open activates the session for a report and seeds the message list with
// one assistant greeting. Reopening replaces any prior state.
func (s *Session) Open(report *models.Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = report
	s.busy = false
	s.messages = []models.Message{
		{Role: models.RoleAssistant, Text: Greeting(report.CompanyName)},
	}
}

// Close deactivates the session and discards all state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = nil
	s.messages = nil
	s.busy = false
}

// Active reports whether the session holds a report.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report != nil
}

// Messages returns a copy of the current message list.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Ask submits one follow-up question and returns the assistant reply.
// The call is rejected (empty return, no state change) when the session is
// idle, the question is blank, or a prior Ask is still in flight — at most
// one outstanding request per session, with no queuing, because the backend
// request embeds the full prior message sequence and overlapping writes
// would corrupt turn order.
//
// The user message is appended before the backend call and never rolled
// back; a failed call appends the apology reply instead of an error.
func (s *Session) Ask(ctx context.Context, text string) (string, bool) {
	question := strings.TrimSpace(text)

	s.mu.Lock()
	if s.report == nil || question == "" || s.busy {
		s.mu.Unlock()
		return "", false
	}
	s.busy = true
	report := s.report
	history := make([]models.Message, len(s.messages))
	copy(history, s.messages)
	s.messages = append(s.messages, models.Message{Role: models.RoleUser, Text: question})
	s.mu.Unlock()

	reply := s.svc.Answer(ctx, report, history, question)

	s.mu.Lock()
	s.messages = append(s.messages, models.Message{Role: models.RoleAssistant, Text: reply})
	s.busy = false
	s.mu.Unlock()

	return reply, true
}
