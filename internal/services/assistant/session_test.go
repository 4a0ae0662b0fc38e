package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/JasperZhi/hk-ipo-engine/internal/common"
	"github.com/JasperZhi/hk-ipo-engine/internal/interfaces"
	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

// mockBackend drives the assistant service in tests.
type mockBackend struct {
	answerFunc   func(ctx context.Context, report *models.Analysis, history []models.Message, question string) (string, error)
	lastHistory  []models.Message
	lastQuestion string
}

func (m *mockBackend) GenerateAnalysis(ctx context.Context, req *interfaces.AnalysisRequest) (*interfaces.AnalysisResult, error) {
	return nil, errors.New("not implemented")
}

func (m *mockBackend) AnswerFollowUp(ctx context.Context, report *models.Analysis, history []models.Message, question string) (string, error) {
	m.lastHistory = append([]models.Message(nil), history...)
	m.lastQuestion = question
	if m.answerFunc != nil {
		return m.answerFunc(ctx, report, history, question)
	}
	return "回答：" + question, nil
}

func newTestSession(backend *mockBackend) *Session {
	return NewSession(NewService(backend, common.NewSilentLogger()))
}

func testReport() *models.Analysis {
	return &models.Analysis{CompanyName: "MegaRobot Inc.", StockCode: "02888"}
}

func TestServiceAnswer(t *testing.T) {
	t.Run("passes reply through", func(t *testing.T) {
		svc := NewService(&mockBackend{}, common.NewSilentLogger())
		reply := svc.Answer(context.Background(), testReport(), nil, "竞品对比？")
		if reply != "回答：竞品对比？" {
			t.Errorf("unexpected reply: %q", reply)
		}
	})

	t.Run("apology on error", func(t *testing.T) {
		backend := &mockBackend{
			answerFunc: func(ctx context.Context, report *models.Analysis, history []models.Message, question string) (string, error) {
				return "", errors.New("quota exceeded")
			},
		}
		svc := NewService(backend, common.NewSilentLogger())
		if got := svc.Answer(context.Background(), testReport(), nil, "q"); got != ApologyReply {
			t.Errorf("expected apology, got %q", got)
		}
	})

	t.Run("apology on empty reply", func(t *testing.T) {
		backend := &mockBackend{
			answerFunc: func(ctx context.Context, report *models.Analysis, history []models.Message, question string) (string, error) {
				return "", nil
			},
		}
		svc := NewService(backend, common.NewSilentLogger())
		if got := svc.Answer(context.Background(), testReport(), nil, "q"); got != ApologyReply {
			t.Errorf("expected apology, got %q", got)
		}
	})
}

func TestSessionOpenSeedsGreeting(t *testing.T) {
	sess := newTestSession(&mockBackend{})

	if sess.Active() {
		t.Fatal("new session must be idle")
	}

	sess.Open(testReport())

	if !sess.Active() {
		t.Fatal("opened session must be active")
	}
	messages := sess.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected exactly one greeting, got %d messages", len(messages))
	}
	if messages[0].Role != models.RoleAssistant {
		t.Errorf("greeting must come from the assistant, got %q", messages[0].Role)
	}
	if !strings.Contains(messages[0].Text, "MegaRobot Inc.") {
		t.Errorf("greeting must name the company: %q", messages[0].Text)
	}
}

func TestSessionAsk(t *testing.T) {
	backend := &mockBackend{}
	sess := newTestSession(backend)
	sess.Open(testReport())

	reply, ok := sess.Ask(context.Background(), "  竞品对比？  ")
	if !ok {
		t.Fatal("ask on an active session must be accepted")
	}
	if reply != "回答：竞品对比？" {
		t.Errorf("unexpected reply: %q", reply)
	}

	// greeting + user + assistant
	messages := sess.Messages()
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[1].Role != models.RoleUser || messages[1].Text != "竞品对比？" {
		t.Errorf("user message not appended trimmed: %+v", messages[1])
	}
	if messages[2].Role != models.RoleAssistant {
		t.Errorf("assistant reply not appended: %+v", messages[2])
	}

	// The question travels separately from the history
	if backend.lastQuestion != "竞品对比？" {
		t.Errorf("unexpected question: %q", backend.lastQuestion)
	}
	if len(backend.lastHistory) != 1 {
		t.Fatalf("history must be the prior sequence only (the greeting), got %d messages", len(backend.lastHistory))
	}
	if backend.lastHistory[0].Role != models.RoleAssistant {
		t.Errorf("unexpected history: %+v", backend.lastHistory)
	}

	// After k successful round trips the list holds 1+2k messages
	if _, ok := sess.Ask(context.Background(), "财务亮点？"); !ok {
		t.Fatal("second sequential ask must be accepted")
	}
	if got := len(sess.Messages()); got != 5 {
		t.Errorf("expected 5 messages after two asks, got %d", got)
	}
}

func TestSessionAskRejections(t *testing.T) {
	t.Run("idle session", func(t *testing.T) {
		sess := newTestSession(&mockBackend{})
		if _, ok := sess.Ask(context.Background(), "q"); ok {
			t.Error("idle session must reject asks")
		}
	})

	t.Run("blank question", func(t *testing.T) {
		sess := newTestSession(&mockBackend{})
		sess.Open(testReport())
		if _, ok := sess.Ask(context.Background(), "   "); ok {
			t.Error("blank question must be rejected")
		}
		if len(sess.Messages()) != 1 {
			t.Error("rejected ask must not change state")
		}
	})

	t.Run("busy session", func(t *testing.T) {
		inFlight := make(chan struct{})
		release := make(chan struct{})
		backend := &mockBackend{
			answerFunc: func(ctx context.Context, report *models.Analysis, history []models.Message, question string) (string, error) {
				close(inFlight)
				<-release
				return "done", nil
			},
		}
		sess := newTestSession(backend)
		sess.Open(testReport())

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.Ask(context.Background(), "first")
		}()

		<-inFlight
		if _, ok := sess.Ask(context.Background(), "second"); ok {
			t.Error("overlapping ask must be rejected")
		}
		close(release)
		wg.Wait()

		// first question completed normally
		if len(sess.Messages()) != 3 {
			t.Errorf("expected 3 messages after the first ask, got %d", len(sess.Messages()))
		}
	})
}

func TestSessionAskFailureKeepsUserMessage(t *testing.T) {
	backend := &mockBackend{
		answerFunc: func(ctx context.Context, report *models.Analysis, history []models.Message, question string) (string, error) {
			return "", errors.New("backend down")
		},
	}
	sess := newTestSession(backend)
	sess.Open(testReport())

	reply, ok := sess.Ask(context.Background(), "财务亮点？")
	if !ok {
		t.Fatal("ask must be accepted")
	}
	if reply != ApologyReply {
		t.Errorf("expected apology, got %q", reply)
	}

	messages := sess.Messages()
	if len(messages) != 3 {
		t.Fatalf("expected greeting + user + apology, got %d", len(messages))
	}
	if messages[1].Role != models.RoleUser {
		t.Error("user message must never be rolled back")
	}
	if messages[2].Text != ApologyReply {
		t.Errorf("apology must be appended uniformly, got %q", messages[2].Text)
	}

	// Session stays usable after a failure
	if _, ok := sess.Ask(context.Background(), "再试一次"); !ok {
		t.Error("session must accept asks after a failed one")
	}
}

func TestSessionClose(t *testing.T) {
	sess := newTestSession(&mockBackend{})
	sess.Open(testReport())
	sess.Ask(context.Background(), "q")

	sess.Close()

	if sess.Active() {
		t.Error("closed session must be idle")
	}
	if len(sess.Messages()) != 0 {
		t.Error("closed session must discard all messages")
	}
	if _, ok := sess.Ask(context.Background(), "q"); ok {
		t.Error("closed session must reject asks")
	}

	// Reopening starts a fresh conversation
	sess.Open(testReport())
	if len(sess.Messages()) != 1 {
		t.Error("reopen must reseed exactly one greeting")
	}
}
