package server

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/JasperZhi/hk-ipo-engine/internal/app"
	"github.com/JasperZhi/hk-ipo-engine/internal/common"
	"github.com/JasperZhi/hk-ipo-engine/internal/interfaces"
	"github.com/JasperZhi/hk-ipo-engine/internal/models"
	"github.com/JasperZhi/hk-ipo-engine/internal/services/insights"
)

// memInternalStore is an in-memory InternalStore for handler tests.
type memInternalStore struct {
	mu    sync.Mutex
	users map[string]*models.InternalUser
	kv    map[string]string
}

func newMemInternalStore() *memInternalStore {
	return &memInternalStore{
		users: make(map[string]*models.InternalUser),
		kv:    make(map[string]string),
	}
}

func (m *memInternalStore) GetUser(_ context.Context, userID string) (*models.InternalUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, fmt.Errorf("user '%s' not found", userID)
}

func (m *memInternalStore) GetUserByEmail(_ context.Context, email string) (*models.InternalUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user with email '%s' not found", email)
}

func (m *memInternalStore) SaveUser(_ context.Context, user *models.InternalUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *memInternalStore) GetOrCreateUser(ctx context.Context, userID, email string) (*models.InternalUser, error) {
	m.mu.Lock()
	if u, ok := m.users[userID]; ok {
		cp := *u
		m.mu.Unlock()
		return &cp, nil
	}
	u := &models.InternalUser{UserID: userID, Email: email, Role: models.RoleMember}
	m.users[userID] = u
	cp := *u
	m.mu.Unlock()
	return &cp, nil
}

func (m *memInternalStore) GetSystemKV(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.kv[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("system key '%s' not found", key)
}

func (m *memInternalStore) SetSystemKV(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = value
	return nil
}

func (m *memInternalStore) Close() error { return nil }

// memSearchStore is an in-memory SearchLogStore.
type memSearchStore struct {
	mu      sync.Mutex
	records []*models.SearchRecord
}

func (m *memSearchStore) SaveSearch(_ context.Context, record *models.SearchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append([]*models.SearchRecord{record}, m.records...)
	return nil
}

func (m *memSearchStore) ListRecent(_ context.Context, limit int) ([]*models.SearchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.records
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	result := make([]*models.SearchRecord, len(out))
	copy(result, out)
	return result, nil
}

func (m *memSearchStore) Close() error { return nil }

// memStorageManager aggregates the in-memory stores.
type memStorageManager struct {
	internal *memInternalStore
	searches *memSearchStore
}

func (m *memStorageManager) InternalStore() interfaces.InternalStore   { return m.internal }
func (m *memStorageManager) SearchLogStore() interfaces.SearchLogStore { return m.searches }
func (m *memStorageManager) Close() error                              { return nil }

// stubAnalysisService returns a canned report or error.
type stubAnalysisService struct {
	report *models.Analysis
	err    error
}

func (s *stubAnalysisService) GenerateReport(_ context.Context, opts interfaces.GenerateOptions) (*models.Analysis, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

// stubAssistantService returns a canned answer.
type stubAssistantService struct {
	answer string
}

func (s *stubAssistantService) Answer(_ context.Context, report *models.Analysis, history []models.Message, question string) string {
	return s.answer
}

// testHarness bundles a server with its backing fakes.
type testHarness struct {
	server   *Server
	internal *memInternalStore
	searches *memSearchStore
	analysis *stubAnalysisService
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Auth.JWTSecret = "test-secret"

	internal := newMemInternalStore()
	searches := &memSearchStore{}
	storage := &memStorageManager{internal: internal, searches: searches}

	analysisSvc := &stubAnalysisService{
		report: &models.Analysis{CompanyName: "MegaRobot Inc.", StockCode: "02888"},
	}

	a := &app.App{
		Config:           config,
		Logger:           common.NewSilentLogger(),
		Storage:          storage,
		AnalysisService:  analysisSvc,
		AssistantService: &stubAssistantService{answer: "回答"},
		InsightsService:  insights.NewService(searches, common.NewSilentLogger()),
	}

	return &testHarness{
		server:   NewServer(a),
		internal: internal,
		searches: searches,
		analysis: analysisSvc,
	}
}

// withAssistant swaps the assistant service, rebuilding downstream sessions.
func (h *testHarness) withAssistant(svc interfaces.AssistantService) {
	h.server.app.AssistantService = svc
}

// tokenFor issues a JWT for the given identity.
func (h *testHarness) tokenFor(t *testing.T, userID, email, role string) string {
	t.Helper()
	token, err := h.server.issueToken(userID, email, role)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

// adminToken issues an admin JWT and persists the matching admin user so the
// middleware resolves the admin role.
func (h *testHarness) adminToken(t *testing.T) string {
	t.Helper()
	h.internal.users["admin-1"] = &models.InternalUser{
		UserID: "admin-1",
		Email:  "admin@example.com",
		Role:   models.RoleAdmin,
	}
	return h.tokenFor(t, "admin-1", "admin@example.com", models.RoleAdmin)
}
