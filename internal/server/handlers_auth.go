package server

import (
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// handleRegister handles POST /api/auth/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		WriteError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if len(req.Password) < 8 {
		WriteError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	store := s.app.Storage.InternalStore()
	if existing, err := store.GetUserByEmail(r.Context(), email); err == nil && existing != nil {
		WriteError(w, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	now := time.Now()
	user := &models.InternalUser{
		UserID:       uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleMember,
		CreatedAt:    now,
		ModifiedAt:   now,
	}
	if err := store.SaveUser(r.Context(), user); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save user")
		WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := s.issueToken(user.UserID, user.Email, user.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to issue token")
		WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	WriteJSON(w, http.StatusCreated, authResponse{
		Token:  token,
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
	})
}

// handleLogin handles POST /api/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.app.Storage.InternalStore().GetUserByEmail(r.Context(), email)
	if err != nil || user == nil {
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.issueToken(user.UserID, user.Email, user.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to issue token")
		WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	WriteJSON(w, http.StatusOK, authResponse{
		Token:  token,
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
	})
}
