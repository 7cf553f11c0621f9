package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/clothstore/backend/internal/interfaces/http/dto"
	"github.com/clothstore/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Login(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login",
		LoginRequest{Email: testAdminEmail, Password: testAdminPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[LoginResponse](t, w)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.Token)
	assert.True(t, resp.Data.ExpiresAt.After(time.Now()))
	assert.Equal(t, testAdminEmail, resp.Data.User.Email)
	assert.Equal(t, "admin", resp.Data.User.Role)

	// the issued token opens the guarded routes
	w = env.do(t, http.MethodGet, "/api/v1/orders/stats", nil, resp.Data.Token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Login_Rejected(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		body    LoginRequest
		status  int
		code    string
		message string
	}{
		{"missing password", LoginRequest{Email: testAdminEmail}, http.StatusBadRequest, dto.ErrCodeValidation, "Email and password are required."},
		{"missing email", LoginRequest{Password: testAdminPassword}, http.StatusBadRequest, dto.ErrCodeValidation, "Email and password are required."},
		{"wrong password", LoginRequest{Email: testAdminEmail, Password: "guess"}, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Invalid email or password."},
		{"unknown email", LoginRequest{Email: "someone@clothstore.com", Password: testAdminPassword}, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Invalid email or password."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, path := range []string{"/api/v1/auth/login", "/api/v1/auth/admin/login"} {
				w := env.do(t, http.MethodPost, path, tt.body, "")
				errInfo := requireError(t, w, tt.status, tt.code)
				assert.Equal(t, tt.message, errInfo.Message, path)
			}
		})
	}
}

func TestAuthHandler_AdminLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/admin/login",
		LoginRequest{Email: testAdminEmail, Password: testAdminPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Login successful", decode[dto.MessageResponse](t, w).Data.Message)
}

func TestAuthHandler_Verify(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/auth/verify", nil, env.adminToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[VerifyResponse](t, w)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, testAdminEmail, resp.Data.User.Email)
	assert.Equal(t, "Admin", resp.Data.User.Name)

	w = env.do(t, http.MethodGet, "/api/v1/auth/verify", nil, "not-a-token")
	errInfo := requireError(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
	assert.Equal(t, middleware.MsgInvalidToken, errInfo.Message)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Logged out successfully", decode[dto.MessageResponse](t, w).Data.Message)

	// the revoked token no longer passes the guard
	w = env.do(t, http.MethodGet, "/api/v1/auth/verify", nil, token)
	errInfo := requireError(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
	assert.Equal(t, middleware.MsgInvalidToken, errInfo.Message)

	// a fresh token is unaffected
	w = env.do(t, http.MethodGet, "/api/v1/auth/verify", nil, env.adminToken(t))
	assert.Equal(t, http.StatusOK, w.Code)
}
