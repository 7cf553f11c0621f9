package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clothstore/backend/internal/infrastructure/auth"
	"github.com/clothstore/backend/internal/infrastructure/config"
	"github.com/clothstore/backend/internal/infrastructure/logger"
	"github.com/clothstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingBlacklist struct{}

func (failingBlacklist) Revoke(context.Context, string, time.Duration) error {
	return errors.New("redis down")
}

func (failingBlacklist) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "middleware-test-secret-0123456789abcdef",
		Expiration: time.Hour,
		Issuer:     "clothstore-backend",
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, role string) string {
	t.Helper()
	issued, err := svc.GenerateToken(auth.Principal{Email: "admin@clothstore.com", Name: "Admin", Role: role})
	require.NoError(t, err)
	return issued.Token
}

func newGuardedRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.GET("/admin", append(AdminGuard(cfg), func(c *gin.Context) {
		claims := GetJWTClaims(c)
		c.JSON(http.StatusOK, gin.H{"email": claims.Email, "actor": logger.GetActor(c.Request.Context())})
	})...)
	router.GET("/authenticated", JWTAuth(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestJWTAuth(t *testing.T) {
	svc := newTestJWT()
	router := newGuardedRouter(JWTMiddlewareConfig{Verifier: svc, Logger: zap.NewNop()})

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, MsgAccessTokenRequired},
		{"wrong scheme", "Basic YWRtaW46cGFzcw==", http.StatusUnauthorized, MsgAccessTokenRequired},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, MsgAccessTokenRequired},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, MsgInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			errInfo := decodeError(t, w)
			assert.Equal(t, dto.ErrCodeUnauthorized, errInfo.Code)
			assert.Equal(t, tt.message, errInfo.Message)
		})
	}
}

func TestJWTAuth_TokenFromAnotherSecret(t *testing.T) {
	router := newGuardedRouter(JWTMiddlewareConfig{Verifier: newTestJWT()})

	other := auth.NewJWTService(config.JWTConfig{Secret: "a-completely-different-secret-value!!", Expiration: time.Hour})
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, other, auth.RoleAdmin))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, MsgInvalidToken, decodeError(t, w).Message)
}

func TestAdminGuard_AllowsAdmin(t *testing.T) {
	svc := newTestJWT()
	router := newGuardedRouter(JWTMiddlewareConfig{Verifier: svc})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, auth.RoleAdmin))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "admin@clothstore.com", body["email"])
	assert.Equal(t, "admin@clothstore.com", body["actor"])
}

func TestAdminGuard_RejectsNonAdmin(t *testing.T) {
	svc := newTestJWT()
	router := newGuardedRouter(JWTMiddlewareConfig{Verifier: svc})
	token := issueToken(t, svc, "customer")

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	errInfo := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeForbidden, errInfo.Code)
	assert.Equal(t, MsgAdminRequired, errInfo.Message)

	// the same token is fine where only authentication is required
	req = httptest.NewRequest(http.MethodGet, "/authenticated", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_RevokedToken(t *testing.T) {
	svc := newTestJWT()
	blacklist := auth.NewInMemoryTokenBlacklist()
	router := newGuardedRouter(JWTMiddlewareConfig{Verifier: svc, TokenBlacklist: blacklist})

	token := issueToken(t, svc, auth.RoleAdmin)
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, MsgInvalidToken, decodeError(t, w).Message)
}

func TestJWTAuth_BlacklistOutageFailsOpen(t *testing.T) {
	svc := newTestJWT()
	router := newGuardedRouter(JWTMiddlewareConfig{Verifier: svc, TokenBlacklist: failingBlacklist{}})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, auth.RoleAdmin))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin_WithoutJWTAuth(t *testing.T) {
	router := gin.New()
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetJWTClaims_Absent(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))

	c.Set(JWTClaimsKey, "not claims")
	assert.Nil(t, GetJWTClaims(c))
}
