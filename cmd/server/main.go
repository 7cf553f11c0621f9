package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/clothstore/backend/internal/application/catalog"
	"github.com/clothstore/backend/internal/application/contact"
	identityapp "github.com/clothstore/backend/internal/application/identity"
	orderapp "github.com/clothstore/backend/internal/application/order"
	"github.com/clothstore/backend/internal/domain/order"
	"github.com/clothstore/backend/internal/infrastructure/auth"
	"github.com/clothstore/backend/internal/infrastructure/config"
	"github.com/clothstore/backend/internal/infrastructure/event"
	"github.com/clothstore/backend/internal/infrastructure/logger"
	"github.com/clothstore/backend/internal/infrastructure/mail"
	"github.com/clothstore/backend/internal/infrastructure/persistence"
	"github.com/clothstore/backend/internal/infrastructure/storage"
	"github.com/clothstore/backend/internal/infrastructure/telemetry"
	"github.com/clothstore/backend/internal/interfaces/http/handler"
	"github.com/clothstore/backend/internal/interfaces/http/middleware"
	"github.com/clothstore/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/clothstore/backend/docs"
)

//	@title			Cloth Store API
//	@version		1.0
//	@description	Storefront checkout, order administration, product catalog and contact form.

//	@contact.name	Cloth Store Engineering
//	@contact.email	dev@clothstore.com

//	@host		localhost:5000
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Cloth Store backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	ctx := context.Background()

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Database.SlowThreshold)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(ctx); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
		log.Info("Schema migrated")
	}

	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem:        dbSystem,
		SlowQueryThresh: cfg.Database.SlowThreshold,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	var metrics *telemetry.Metrics
	var exporter router.MetricsExporter
	if cfg.Metrics.Enabled {
		metrics = telemetry.NewMetrics("clothstore")
		exporter = metrics
	}

	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		client, err := auth.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = client.Close() }()
		blacklist = auth.NewRedisTokenBlacklist(client)
		log.Info("Token blacklist backed by redis")
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Token blacklist is in-memory; revocations are lost on restart")
	}

	var images catalogapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare storage bucket", zap.Error(err), zap.String("bucket", s3Storage.Bucket()))
		}
		images = s3Storage
	} else {
		images = storage.NewStubObjectStorage(cfg.Storage.PublicBaseURL)
		log.Warn("Object storage disabled; product images are kept in memory")
	}

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal("Invalid timezone", zap.String("timezone", cfg.App.Timezone), zap.Error(err))
	}

	orderOpts := []orderapp.Option{
		orderapp.WithAllocator(order.NewAllocator(cfg.Order.NumberPrefix, cfg.Order.NumberDigits)),
		orderapp.WithMaxAttempts(cfg.Order.MaxNumberAttempts),
		orderapp.WithLocation(loc),
		orderapp.WithLogger(log),
	}
	if metrics != nil {
		orderOpts = append(orderOpts, orderapp.WithRecorder(metrics))
	}
	repoOpts := persistence.WithQueryTimeout(cfg.Database.QueryTimeout)
	orderService := orderapp.NewOrderService(persistence.NewGormOrderRepository(db.DB, repoOpts), orderOpts...)

	if cfg.Events.KafkaEnabled {
		publisher := event.NewKafkaPublisher(event.NewKafkaWriter(cfg.Events), cfg.Events.WriteTimeout, log)
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error("Error closing kafka publisher", zap.Error(err))
			}
		}()
		orderService.SetEventPublisher(publisher)
		log.Info("Order events published to kafka",
			zap.Strings("brokers", cfg.Events.Brokers),
			zap.String("topic", cfg.Events.Topic),
		)
	} else {
		orderService.SetEventPublisher(event.NewLogPublisher(log))
	}

	productService := catalogapp.NewProductService(
		persistence.NewGormProductRepository(db.DB, repoOpts), images, cfg.Storage.KeyPrefix, log)

	var mailer contact.Mailer
	if cfg.Mail.Enabled {
		smtpMailer, err := mail.NewSMTPMailer(cfg.Mail, log)
		if err != nil {
			log.Fatal("Failed to initialize mailer", zap.Error(err))
		}
		mailer = smtpMailer
	} else {
		mailer = mail.NewLogMailer(cfg.Mail.To, log)
		log.Warn("SMTP disabled; contact messages are written to the log")
	}
	contactService := contact.NewService(mailer, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(cfg.Admin, jwtService, blacklist, log)

	engine := router.NewEngine(router.EngineConfig{
		Config: cfg,
		Logger: log,
		Auth: middleware.JWTMiddlewareConfig{
			Verifier:       jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		},
		Metrics:        exporter,
		TracerProvider: tracer.Provider(),
	}, router.Handlers{
		Orders:   handler.NewOrderHandler(orderService),
		Products: handler.NewProductHandler(productService),
		Contact:  handler.NewContactHandler(contactService),
		Auth:     handler.NewAuthHandler(authService),
		System:   handler.NewSystemHandler(db, cfg.App.Name),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
