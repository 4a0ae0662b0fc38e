package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

func postJSON(h *testHarness, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return doRequest(h, req)
}

func TestRegisterAndLogin(t *testing.T) {
	h := newTestHarness(t)

	rec := postJSON(h, "/api/auth/register", `{"email":"Analyst@Example.com","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered authResponse
	decodeBody(t, rec, &registered)
	assert.NotEmpty(t, registered.Token)
	assert.NotEmpty(t, registered.UserID)
	// Email normalized to lowercase
	assert.Equal(t, "analyst@example.com", registered.Email)
	assert.Equal(t, models.RoleMember, registered.Role)

	// Password hash never stored in clear
	stored, err := h.internal.GetUserByEmail(t.Context(), "analyst@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)

	t.Run("login succeeds with the right password", func(t *testing.T) {
		rec := postJSON(h, "/api/auth/login", `{"email":"analyst@example.com","password":"s3cret-pass"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var logged authResponse
		decodeBody(t, rec, &logged)
		assert.NotEmpty(t, logged.Token)
		assert.Equal(t, registered.UserID, logged.UserID)
	})

	t.Run("login fails with the wrong password", func(t *testing.T) {
		rec := postJSON(h, "/api/auth/login", `{"email":"analyst@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("login fails for unknown email", func(t *testing.T) {
		rec := postJSON(h, "/api/auth/login", `{"email":"nobody@example.com","password":"s3cret-pass"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("duplicate registration rejected", func(t *testing.T) {
		rec := postJSON(h, "/api/auth/register", `{"email":"analyst@example.com","password":"another-pass"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestRegisterValidation(t *testing.T) {
	h := newTestHarness(t)

	t.Run("bad email", func(t *testing.T) {
		rec := postJSON(h, "/api/auth/register", `{"email":"not-an-email","password":"s3cret-pass"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("short password", func(t *testing.T) {
		rec := postJSON(h, "/api/auth/register", `{"email":"a@example.com","password":"short"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestIssuedTokenAuthenticates(t *testing.T) {
	h := newTestHarness(t)

	rec := postJSON(h, "/api/auth/register", `{"email":"a@example.com","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered authResponse
	decodeBody(t, rec, &registered)

	req := analyzeRequest(t, registered.Token, map[string]string{"company_name": "MegaRobot"})
	assert.Equal(t, http.StatusOK, doRequest(h, req).Code)
}

func TestInvalidTokenRejected(t *testing.T) {
	h := newTestHarness(t)

	req := analyzeRequest(t, "not-a-jwt", map[string]string{"company_name": "MegaRobot"})
	assert.Equal(t, http.StatusUnauthorized, doRequest(h, req).Code)
}
