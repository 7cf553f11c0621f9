package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	catalogapp "github.com/clothstore/backend/internal/application/catalog"
	"github.com/clothstore/backend/internal/application/contact"
	"github.com/clothstore/backend/internal/application/identity"
	orderapp "github.com/clothstore/backend/internal/application/order"
	"github.com/clothstore/backend/internal/infrastructure/auth"
	"github.com/clothstore/backend/internal/infrastructure/config"
	"github.com/clothstore/backend/internal/infrastructure/persistence"
	"github.com/clothstore/backend/internal/infrastructure/persistence/models"
	"github.com/clothstore/backend/internal/infrastructure/storage"
	"github.com/clothstore/backend/internal/interfaces/http/dto"
	"github.com/clothstore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testAdminEmail    = "admin@clothstore.com"
	testAdminPassword = "s3cret!"
	testStorageURL    = "http://cdn.test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv wires real services over an in-memory SQLite store
type testEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	storage   *storage.StubObjectStorage
	mailer    *stubMailer
}

// stubMailer records relayed mail and fails with err when set
type stubMailer struct {
	sent []contact.Mail
	err  error
}

func (m *stubMailer) Send(_ context.Context, mail contact.Mail) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, mail)
	return "<msg-1@clothstore.test>", nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	env := &testEnv{
		router: gin.New(),
		db:     db,
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:     "handler-test-secret-0123456789abcdef",
			Expiration: time.Hour,
			Issuer:     "clothstore-backend",
		}),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		storage:   storage.NewStubObjectStorage(testStorageURL),
		mailer:    &stubMailer{},
	}

	orderService := orderapp.NewOrderService(persistence.NewGormOrderRepository(db))
	productService := catalogapp.NewProductService(
		persistence.NewGormProductRepository(db), env.storage, "products", zap.NewNop())
	authService := identity.NewAuthService(
		config.AdminConfig{Email: testAdminEmail, Name: "Admin", PasswordHash: string(hash)},
		env.jwt, env.blacklist, nil)

	guard := middleware.AdminGuard(middleware.JWTMiddlewareConfig{
		Verifier:       env.jwt,
		TokenBlacklist: env.blacklist,
	})
	admin := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guard...), h)
	}

	orders := NewOrderHandler(orderService)
	products := NewProductHandler(productService)
	authH := NewAuthHandler(authService)
	contactH := NewContactHandler(contact.NewService(env.mailer, zap.NewNop()))

	env.router.Use(middleware.RequestID())
	api := env.router.Group("/api/v1")

	api.POST("/orders", orders.Create)
	api.GET("/orders", admin(orders.List)...)
	api.GET("/orders/stats", admin(orders.Stats)...)
	api.GET("/orders/test/connection", admin(orders.TestConnection)...)
	api.GET("/orders/:id", admin(orders.Get)...)
	api.PATCH("/orders/:id/status", admin(orders.UpdateStatus)...)

	api.POST("/auth/login", authH.Login)
	api.POST("/auth/admin/login", authH.AdminLogin)
	api.GET("/auth/verify", admin(authH.Verify)...)
	api.POST("/auth/logout", admin(authH.Logout)...)

	api.POST("/contact/send", contactH.Send)

	api.GET("/products", products.List)
	api.GET("/products/:id", products.Get)
	api.POST("/products", admin(products.Create)...)
	api.PUT("/products/:id/sold-out", admin(products.SetSoldOut)...)
	api.POST("/products/:id/images", admin(products.AddImages)...)
	api.DELETE("/products/:id", admin(products.Delete)...)

	return env
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	issued, err := e.jwt.GenerateToken(auth.Principal{Email: testAdminEmail, Name: "Admin", Role: auth.RoleAdmin})
	require.NoError(t, err)
	return issued.Token
}

// do sends a request; body is JSON-encoded unless it is already an io.Reader
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// envelope mirrors dto.Response with a typed data payload
type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var resp envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func requireError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) *dto.ErrorInfo {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	resp := decode[json.RawMessage](t, w)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	require.Equal(t, code, resp.Error.Code)
	return resp.Error
}
