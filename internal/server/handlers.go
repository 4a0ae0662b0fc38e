package server

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JasperZhi/hk-ipo-engine/internal/common"
	"github.com/JasperZhi/hk-ipo-engine/internal/interfaces"
	"github.com/JasperZhi/hk-ipo-engine/internal/models"
	"github.com/JasperZhi/hk-ipo-engine/internal/services/analysis"
	"github.com/JasperZhi/hk-ipo-engine/internal/services/assistant"
)

const maxUploadBytes = 32 << 20 // 32MB

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": common.GetVersion(),
		"backend": s.app.Config.Clients.Backend,
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleAnalyze handles POST /api/analyze (multipart/form-data).
//
// Fields: company_name (required), subscription_multiple, source_url,
// and an optional "file" attachment (prospectus or placing results).
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	opts := interfaces.GenerateOptions{
		CompanyName:      r.FormValue("company_name"),
		SubscriptionHint: r.FormValue("subscription_multiple"),
		SourceURL:        r.FormValue("source_url"),
	}
	if uc := common.UserContextFromContext(r.Context()); uc != nil {
		opts.UserID = uc.UserID
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		path, cleanup, saveErr := saveUpload(file, header.Filename)
		if saveErr != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to store upload")
			return
		}
		defer cleanup()
		opts.AttachmentPath = path
		opts.AttachmentMIME = header.Header.Get("Content-Type")
	} else if err != http.ErrMissingFile {
		WriteError(w, http.StatusBadRequest, "Invalid file upload: "+err.Error())
		return
	}

	report, err := s.app.AnalysisService.GenerateReport(r.Context(), opts)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// writeAnalysisError maps the orchestrator's typed errors to HTTP responses.
func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	var validationErr *analysis.ValidationError
	if errors.As(err, &validationErr) {
		WriteErrorWithCode(w, http.StatusBadRequest, validationErr.Error(), "VALIDATION")
		return
	}

	var attachmentErr *analysis.AttachmentError
	if errors.As(err, &attachmentErr) {
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, attachmentErr.Error(), "ATTACHMENT")
		return
	}

	var schemaErr *analysis.SchemaViolationError
	if errors.As(err, &schemaErr) {
		s.logger.Error().Err(err).Msg("Backend returned non-conforming analysis")
		WriteErrorWithCode(w, http.StatusBadGateway, "Analysis backend returned an invalid report", "SCHEMA_VIOLATION")
		return
	}

	var backendErr *analysis.BackendError
	if errors.As(err, &backendErr) {
		s.logger.Error().Err(err).Int("backend_status", backendErr.Status).Msg("Analysis backend request failed")
		WriteErrorWithCode(w, http.StatusBadGateway, "Analysis backend request failed", "BACKEND")
		return
	}

	s.logger.Error().Err(err).Msg("Analysis failed")
	WriteError(w, http.StatusInternalServerError, "Analysis failed")
}

// saveUpload copies an uploaded file to a temp location so the orchestrator
// can read it by path. The returned cleanup removes the file.
func saveUpload(file io.Reader, filename string) (string, func(), error) {
	ext := filepath.Ext(filename)
	tmp, err := os.CreateTemp("", "ipo-upload-*"+ext)
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

// askRequest is the follow-up request body. Either sessionId (server-side
// session) or report+history (stateless) identifies the conversation.
type askRequest struct {
	SessionID string           `json:"sessionId"`
	Report    *models.Analysis `json:"report"`
	History   []models.Message `json:"history"`
	Question  string           `json:"question"`
}

// handleAssistantAsk handles POST /api/assistant/ask.
//
// In the stateless form the caller supplies the report, the prior message
// sequence and the new question; backend failures surface as the apology
// reply, never as 5xx.
func (s *Server) handleAssistantAsk(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req askRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.SessionID != "" {
		s.handleAssistantAskSession(w, r, req.SessionID, req.Question)
		return
	}
	if req.Report == nil {
		WriteError(w, http.StatusBadRequest, "report is required")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		WriteError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer := s.app.AssistantService.Answer(r.Context(), req.Report, req.History, req.Question)
	WriteJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// handleAssistantOpen handles POST /api/assistant/open.
// Creates a server-side conversation session seeded with the greeting.
func (s *Server) handleAssistantOpen(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Report *models.Analysis `json:"report"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Report == nil {
		WriteError(w, http.StatusBadRequest, "report is required")
		return
	}

	sess := assistant.NewSession(s.app.AssistantService)
	sess.Open(req.Report)

	sessionID := uuid.New().String()
	s.mu.Lock()
	s.sessions[sessionID] = sess
	s.mu.Unlock()

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId": sessionID,
		"messages":  sess.Messages(),
	})
}

// handleAssistantAskSession serves asks against a server-side session: the session
// keeps the history, so the caller sends only the question.
func (s *Server) handleAssistantAskSession(w http.ResponseWriter, r *http.Request, sessionID, question string) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		WriteError(w, http.StatusNotFound, "Unknown session")
		return
	}

	answer, accepted := sess.Ask(r.Context(), question)
	if !accepted {
		if strings.TrimSpace(question) == "" {
			WriteError(w, http.StatusBadRequest, "question is required")
			return
		}
		WriteError(w, http.StatusConflict, "A question is already in flight for this session")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"answer":   answer,
		"messages": sess.Messages(),
	})
}

// handleAssistantClose handles POST /api/assistant/close.
func (s *Server) handleAssistantClose(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		SessionID string `json:"sessionId"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	sess, ok := s.sessions[req.SessionID]
	delete(s.sessions, req.SessionID)
	s.mu.Unlock()
	if ok {
		sess.Close()
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"closed": ok})
}
