package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	SlowQueryThresh time.Duration
	DBName          string
	TracerProvider  trace.TracerProvider // nil uses the global provider
}

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin and a callback pair that
// flags slow statements on the active span.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithoutQueryVariables()}
	if cfg.DBName != "" {
		opts = append(opts, otelgorm.WithDBName(cfg.DBName))
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { markSlowQuery(tx, cfg.SlowQueryThresh) }

	cb := db.Callback()
	registrations := []struct {
		name string
		fn   func() error
	}{
		{"create", func() error {
			if err := cb.Create().Before("gorm:create").Register("qb_timing:before_create", before); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register("qb_timing:after_create", after)
		}},
		{"query", func() error {
			if err := cb.Query().Before("gorm:query").Register("qb_timing:before_query", before); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register("qb_timing:after_query", after)
		}},
		{"update", func() error {
			if err := cb.Update().Before("gorm:update").Register("qb_timing:before_update", before); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register("qb_timing:after_update", after)
		}},
		{"delete", func() error {
			if err := cb.Delete().Before("gorm:delete").Register("qb_timing:before_delete", before); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register("qb_timing:after_delete", after)
		}},
	}
	for _, r := range registrations {
		if err := r.fn(); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled", zap.Duration("slow_query_threshold", cfg.SlowQueryThresh))
	return nil
}

func markSlowQuery(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		RecordError(span, tx.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok || threshold <= 0 {
		return
	}
	if elapsed := time.Since(start); elapsed > threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
