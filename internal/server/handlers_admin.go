package server

import (
	"net/http"
	"strconv"

	"github.com/JasperZhi/hk-ipo-engine/internal/common"
	"github.com/JasperZhi/hk-ipo-engine/internal/models"
	"github.com/JasperZhi/hk-ipo-engine/internal/services/insights"
)

// requireAdmin checks that the request carries an admin user context.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	uc := common.UserContextFromContext(r.Context())
	if uc == nil || uc.Role != models.RoleAdmin {
		WriteError(w, http.StatusForbidden, "Admin access required")
		return false
	}
	return true
}

// handleAdminTopSearches handles GET /api/admin/searches/top
//
// Query params: window (recent records to scan, default 100) and
// limit (ranking size, default 5).
func (s *Server) handleAdminTopSearches(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	window := queryInt(r, "window", insights.DefaultWindow)
	limit := queryInt(r, "limit", 5)

	top, err := s.app.InsightsService.TopSearches(r.Context(), window, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to aggregate searches")
		WriteError(w, http.StatusInternalServerError, "Failed to aggregate searches")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"window": window,
		"top":    top,
	})
}

// handleAdminSearches handles GET /api/admin/searches
func (s *Server) handleAdminSearches(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	limit := queryInt(r, "limit", insights.DefaultWindow)

	records, err := s.app.Storage.SearchLogStore().ListRecent(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list searches")
		WriteError(w, http.StatusInternalServerError, "Failed to list searches")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(records),
		"searches": records,
	})
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
