package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clothstore/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTracedRouter(t *testing.T) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	router := gin.New()
	router.Use(RequestID())
	router.Use(Tracing(TracingConfig{
		ServiceName:    "clothstore-test",
		Enabled:        true,
		TracerProvider: tp,
		SkipPaths:      []string{"/health"},
	}))
	router.Use(SpanErrorMarker())
	router.Use(func(c *gin.Context) {
		if c.GetHeader("X-Test-Admin") != "" {
			claims := &auth.Claims{Email: "admin@clothstore.com", Role: auth.RoleAdmin}
			c.Set(JWTClaimsKey, claims)
		}
		c.Next()
	})
	router.Use(TracingAttributeInjector())
	router.GET("/api/v1/orders/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/v1/orders", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router, recorder
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_NamesSpanByRoute(t *testing.T) {
	router, recorder := newTracedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/42", nil)
	req.Header.Set(RequestIDHeader, "trace-req-1")
	req.Header.Set("X-Test-Admin", "1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /api/v1/orders/:id", span.Name())

	id, ok := spanAttr(span, AttrRequestID)
	require.True(t, ok)
	assert.Equal(t, "trace-req-1", id.AsString())

	actor, ok := spanAttr(span, AttrActor)
	require.True(t, ok)
	assert.Equal(t, "admin@clothstore.com", actor.AsString())
	assert.NotEqual(t, codes.Error, span.Status().Code)
}

func TestTracing_MarksClientErrors(t *testing.T) {
	router, recorder := newTracedRouter(t)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_SkipsConfiguredPaths(t *testing.T) {
	router, recorder := newTracedRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recorder.Ended())
}

func TestTracing_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(Tracing(TracingConfig{Enabled: false}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
