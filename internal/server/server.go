package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/JasperZhi/hk-ipo-engine/internal/app"
	"github.com/JasperZhi/hk-ipo-engine/internal/common"
	"github.com/JasperZhi/hk-ipo-engine/internal/services/assistant"
)

// Server is the HTTP API server for the analysis engine.
type Server struct {
	app    *app.App
	server *http.Server
	logger *common.Logger

	mu       sync.Mutex
	sessions map[string]*assistant.Session
}

// NewServer creates a new HTTP server wired to the given App.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:      a,
		logger:   a.Logger,
		sessions: make(map[string]*assistant.Session),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port),
		Handler:      s.applyMiddleware(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // analysis generation is slow
		IdleTimeout:  120 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", s.handleHealth)

	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/auth/register", s.handleRegister)

	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/metrics/derive", s.handleMetricsDerive)

	mux.HandleFunc("/api/assistant/open", s.handleAssistantOpen)
	mux.HandleFunc("/api/assistant/ask", s.handleAssistantAsk)
	mux.HandleFunc("/api/assistant/close", s.handleAssistantClose)

	mux.HandleFunc("/api/admin/searches", s.handleAdminSearches)
	mux.HandleFunc("/api/admin/searches/top", s.handleAdminTopSearches)
}

// Handler returns the full handler chain, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins listening for HTTP requests. It blocks until the server
// stops, returning nil on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP server starting")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}
