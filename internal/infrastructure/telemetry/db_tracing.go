package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/emlak/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin plus callbacks that mark
// slow and failed statements on the active span. Query variables are kept
// out of spans unless DBLogFullSQL is set.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	annotate := slowQueryAnnotator(cfg.DBSlowQueryThresh)
	cb := db.Callback()
	err := errors.Join(
		cb.Create().Before("gorm:create").Register("emlak:start_create", markQueryStart),
		cb.Query().Before("gorm:query").Register("emlak:start_query", markQueryStart),
		cb.Update().Before("gorm:update").Register("emlak:start_update", markQueryStart),
		cb.Delete().Before("gorm:delete").Register("emlak:start_delete", markQueryStart),
		cb.Row().Before("gorm:row").Register("emlak:start_row", markQueryStart),
		cb.Raw().Before("gorm:raw").Register("emlak:start_raw", markQueryStart),
		cb.Create().After("gorm:create").Register("emlak:annotate_create", annotate),
		cb.Query().After("gorm:query").Register("emlak:annotate_query", annotate),
		cb.Update().After("gorm:update").Register("emlak:annotate_update", annotate),
		cb.Delete().After("gorm:delete").Register("emlak:annotate_delete", annotate),
		cb.Row().After("gorm:row").Register("emlak:annotate_row", annotate),
		cb.Raw().After("gorm:raw").Register("emlak:annotate_raw", annotate),
	)
	if err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", cfg.DBSlowQueryThresh),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func slowQueryAnnotator(threshold time.Duration) func(*gorm.DB) {
	if threshold <= 0 {
		threshold = 200 * time.Millisecond
	}
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}

		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		span.SetAttributes(attribute.Int64("db.rows_affected", db.RowsAffected))

		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
			span.RecordError(db.Error)
		}

		start, ok := ctx.Value(queryStartKey{}).(time.Time)
		if !ok {
			return
		}
		if elapsed := time.Since(start); elapsed > threshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("threshold_ms", threshold.Milliseconds()),
			))
		}
	}
}
