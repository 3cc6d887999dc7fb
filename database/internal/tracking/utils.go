package tracking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/querychain/querychain/logger"
)

const (
	// Default operation type for unidentified queries
	defaultOperation = "query"

	dbVendorPostgreSQL = "postgresql"
	dbVendorMySQL      = "mysql"

	dbTracerName      = "querychain/database"
	maxDBQueryAttrLen = 2000 // Maximum length for db.query.text attribute
)

// TrackDBOperation records a completed query: request query stats, a span,
// metrics and one log event. Failures are logged at error level, queries slower
// than the configured threshold at warn level and everything else at debug.
//
// rowsReturned is the size of the result set, 0 on failure.
// TrackDBOperation is a no-op if tc or its Logger is nil.
func TrackDBOperation(ctx context.Context, tc *Context, query string, start time.Time, rowsReturned int, err error) {
	if tc == nil || tc.Logger == nil {
		return
	}

	elapsed := time.Since(start)

	if ctx != nil {
		logger.QueryStatsFrom(ctx).Record(elapsed, rowsReturned, err)
		createDBSpan(ctx, tc, query, start, err)
		recordDBMetrics(ctx, tc, query, elapsed, rowsReturned, err)
	}

	truncatedQuery := query
	if tc.Settings.MaxQueryLength() > 0 && len(query) > tc.Settings.MaxQueryLength() {
		truncatedQuery = TruncateString(query, tc.Settings.MaxQueryLength())
	}

	logEvent := tc.Logger.WithContext(ctx).WithFields(map[string]any{
		"vendor":      tc.Vendor,
		"duration_ms": elapsed.Milliseconds(),
		"duration_ns": elapsed.Nanoseconds(),
		"query":       truncatedQuery,
	})

	switch {
	case err != nil:
		logEvent.Error().Err(err).Msg("Database query error")
	case elapsed > tc.Settings.SlowQueryThreshold():
		logEvent.Warn().Int("rows", rowsReturned).Msgf("Slow database query detected (%s)", elapsed)
	default:
		logEvent.Debug().Int("rows", rowsReturned).Msg("Database query executed")
	}
}

// TruncateString truncates value to at most maxLen runes, adding "..." when
// maxLen leaves room for it. maxLen <= 0 returns value unchanged.
func TruncateString(value string, maxLen int) string {
	if maxLen <= 0 {
		return value
	}
	r := []rune(value)
	if len(r) <= maxLen {
		return value
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// createDBSpan creates a client span for a query, backdated to start.
func createDBSpan(ctx context.Context, tc *Context, query string, start time.Time, err error) {
	tracer := otel.Tracer(dbTracerName)

	operation := extractDBOperation(query)
	_, span := tracer.Start(ctx, fmt.Sprintf("db.%s", operation),
		trace.WithTimestamp(start),
		trace.WithSpanKind(trace.SpanKindClient),
	)

	truncatedQuery := query
	if len(query) > maxDBQueryAttrLen {
		truncatedQuery = TruncateString(query, maxDBQueryAttrLen)
	}

	attrs := []attribute.KeyValue{
		attribute.String("db.system", normalizeDBVendor(tc.Vendor)),
		semconv.DBQueryText(truncatedQuery),
	}
	if operation != defaultOperation {
		attrs = append(attrs, semconv.DBOperationName(operation))
	}
	if tc.Namespace != "" {
		attrs = append(attrs, semconv.DBNamespace(tc.Namespace))
	}
	if tc.ServerAddress != "" {
		attrs = append(attrs, semconv.ServerAddress(tc.ServerAddress))
	}
	if tc.ServerPort > 0 {
		attrs = append(attrs, semconv.ServerPort(tc.ServerPort))
	}
	span.SetAttributes(attrs...)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}

// extractDBOperation returns the lowercase SQL command of query, or
// defaultOperation when it is not one of the recognized commands.
// UNION statements report as select.
func extractDBOperation(query string) string {
	parts := strings.Fields(query)
	if len(parts) == 0 {
		return defaultOperation
	}

	operation := strings.ToLower(parts[0])
	switch operation {
	case "select", "insert", "update", "delete", "create", "drop", "alter", "truncate":
		return operation
	default:
		return defaultOperation
	}
}

// normalizeDBVendor maps vendor aliases to OTel db.system values.
func normalizeDBVendor(vendor string) string {
	vendor = strings.ToLower(vendor)
	switch vendor {
	case "postgres", "pgx", dbVendorPostgreSQL:
		return dbVendorPostgreSQL
	case "mariadb", dbVendorMySQL:
		return dbVendorMySQL
	default:
		return vendor
	}
}
