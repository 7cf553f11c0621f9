package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type queryStartKey struct{}

// DBTracingConfig holds database span settings
type DBTracingConfig struct {
	Enabled         bool
	DBSystem        string               // postgresql, sqlite
	SlowQueryThresh time.Duration        // spans above this are flagged db.slow_query
	LogFullSQL      bool                 // include bound variables in db.statement
	TracerProvider  trace.TracerProvider // nil uses the global provider
}

// DBTracingPlugin registers otelgorm plus slow-query annotations
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// Register installs the plugin on db. It is a no-op when tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
		otelgorm.WithoutMetrics(),
	}
	if p.config.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(p.config.TracerProvider))
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	// annotations must run while the otelgorm span is still open
	cb := db.Callback()
	register := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("otel_timing:before_create", markQueryStart) },
		func() error { return cb.Create().After("gorm:create").Before("otel:after:create").Register("otel_slow_query:create", p.annotate) },
		func() error { return cb.Query().Before("gorm:query").Register("otel_timing:before_query", markQueryStart) },
		func() error { return cb.Query().After("gorm:query").Before("otel:after:select").Register("otel_slow_query:query", p.annotate) },
		func() error { return cb.Update().Before("gorm:update").Register("otel_timing:before_update", markQueryStart) },
		func() error { return cb.Update().After("gorm:update").Before("otel:after:update").Register("otel_slow_query:update", p.annotate) },
		func() error { return cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", markQueryStart) },
		func() error { return cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("otel_slow_query:delete", p.annotate) },
		func() error { return cb.Row().Before("gorm:row").Register("otel_timing:before_row", markQueryStart) },
		func() error { return cb.Row().After("gorm:row").Before("otel:after:row").Register("otel_slow_query:row", p.annotate) },
		func() error { return cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", markQueryStart) },
		func() error { return cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("otel_slow_query:raw", p.annotate) },
	}
	for _, fn := range register {
		if err := fn(); err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.String("db_system", p.config.DBSystem),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

// annotate flags slow statements on the otelgorm span. otelgorm records table, rows and errors itself.
func (p *DBTracingPlugin) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}
