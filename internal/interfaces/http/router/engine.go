package router

import (
	"net/http"
	"time"

	"github.com/clothstore/backend/internal/infrastructure/config"
	"github.com/clothstore/backend/internal/infrastructure/logger"
	"github.com/clothstore/backend/internal/interfaces/http/dto"
	"github.com/clothstore/backend/internal/interfaces/http/handler"
	"github.com/clothstore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// HealthPath is served outside the API prefix for load balancer health checks
const HealthPath = "/health"

// MetricsExporter observes requests and serves the scrape endpoint
type MetricsExporter interface {
	middleware.RequestObserver
	Handler() http.Handler
}

// Handlers are the HTTP handlers mounted by NewEngine
type Handlers struct {
	Orders   *handler.OrderHandler
	Products *handler.ProductHandler
	Contact  *handler.ContactHandler
	Auth     *handler.AuthHandler
	System   *handler.SystemHandler
}

// EngineConfig carries everything the middleware stack needs
type EngineConfig struct {
	Config *config.Config
	Logger *zap.Logger
	Auth   middleware.JWTMiddlewareConfig
	// Metrics is nil when metrics are disabled
	Metrics MetricsExporter
	// TracerProvider overrides the global provider
	TracerProvider trace.TracerProvider
}

// NewEngine builds the gin engine: the shared middleware stack, the versioned
// API groups, the health check, the metrics scrape endpoint and the API docs.
func NewEngine(ec EngineConfig, h Handlers) *gin.Engine {
	cfg := ec.Config
	log := ec.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	quiet := []string{HealthPath}
	if ec.Metrics != nil {
		quiet = append(quiet, cfg.Metrics.Path)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		Enabled:        cfg.Telemetry.Enabled,
		TracerProvider: ec.TracerProvider,
		SkipPaths:      quiet,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log, quiet...))
	if ec.Metrics != nil {
		engine.Use(middleware.HTTPMetrics(ec.Metrics, quiet...))
	}
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitBurst)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	guard := append(middleware.AdminGuard(ec.Auth), middleware.TracingAttributeInjector())

	engine.GET(HealthPath, h.System.Health)
	if ec.Metrics != nil {
		engine.GET(cfg.Metrics.Path, gin.WrapH(ec.Metrics.Handler()))
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, guard...),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(OrderRoutes(h.Orders, guard)).
		Register(AuthRoutes(h.Auth, guard)).
		Register(ProductRoutes(h.Products, guard)).
		Register(ContactRoutes(h.Contact)).
		Register(SystemRoutes(h.System))
	r.Setup()

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.ErrCodeRouteNotFound, "Route not found", c.GetString(middleware.RequestIDContextKey)))
	})

	return engine
}

// OrderRoutes mounts the order lifecycle. Checkout is public; everything else needs an admin token.
func OrderRoutes(h *handler.OrderHandler, guard []gin.HandlerFunc) *DomainGroup {
	orders := NewDomainGroup("orders", "/orders")
	orders.POST("", h.Create)

	admin := orders.Group("orders-admin", "").Use(guard...)
	admin.GET("", h.List)
	admin.GET("/stats", h.Stats)
	admin.GET("/test/connection", h.TestConnection)
	admin.GET("/:id", h.Get)
	admin.PATCH("/:id/status", h.UpdateStatus)
	return orders
}

// AuthRoutes mounts login, verify and logout
func AuthRoutes(h *handler.AuthHandler, guard []gin.HandlerFunc) *DomainGroup {
	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/login", h.Login)
	auth.POST("/admin/login", h.AdminLogin)

	session := auth.Group("auth-session", "").Use(guard...)
	session.GET("/verify", h.Verify)
	session.POST("/logout", h.Logout)
	return auth
}

// ProductRoutes mounts the catalog. Reads are public; writes need an admin token.
func ProductRoutes(h *handler.ProductHandler, guard []gin.HandlerFunc) *DomainGroup {
	products := NewDomainGroup("products", "/products")
	products.GET("", h.List)
	products.GET("/:id", h.Get)

	admin := products.Group("products-admin", "").Use(guard...)
	admin.POST("", h.Create)
	admin.PUT("/:id/sold-out", h.SetSoldOut)
	admin.POST("/:id/images", h.AddImages)
	admin.DELETE("/:id", h.Delete)
	return products
}

// ContactRoutes mounts the public contact form relay
func ContactRoutes(h *handler.ContactHandler) *DomainGroup {
	return NewDomainGroup("contact", "/contact").
		POST("/send", h.Send)
}

// SystemRoutes mounts service information
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo)
}
