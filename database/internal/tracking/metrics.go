package tracking

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	dbMeterName = "querychain/database"

	// Metric names following OpenTelemetry semantic conventions
	metricDBCalls        = "db.client.calls"
	metricDBDuration     = "db.client.operation.duration"
	metricDBRowsReturned = "db.client.rows.returned"

	// Connection pool metrics
	metricPoolActive = "db.connection.pool.active"
	metricPoolIdle   = "db.connection.pool.idle"
	metricPoolTotal  = "db.connection.pool.total"

	metricDbSQLTable  = "db.sql.table"
	metricDbOperation = "db.operation.name"
	metricDbSystem    = "db.system"

	unknownTable = "unknown"
)

var (
	dbMeter     metric.Meter
	meterOnce   sync.Once
	meterInitMu sync.Mutex

	dbCallsCounter        metric.Int64Counter
	dbDurationHistogram   metric.Float64Histogram
	dbRowsReturnedCounter metric.Int64Counter
)

// logMetricError reports instrument failures on stderr. Metrics never break a query.
func logMetricError(metricName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to initialize metric %s: %v\n", metricName, err)
	}
}

func initDBMeter() {
	meterInitMu.Lock()
	defer meterInitMu.Unlock()

	if dbMeter != nil {
		return
	}

	dbMeter = otel.Meter(dbMeterName)

	var err error
	dbCallsCounter, err = dbMeter.Int64Counter(
		metricDBCalls,
		metric.WithDescription("Total number of database client calls"),
	)
	logMetricError(metricDBCalls, err)

	dbDurationHistogram, err = dbMeter.Float64Histogram(
		metricDBDuration,
		metric.WithDescription("Duration of database operations in milliseconds"),
		metric.WithUnit("ms"),
	)
	logMetricError(metricDBDuration, err)

	dbRowsReturnedCounter, err = dbMeter.Int64Counter(
		metricDBRowsReturned,
		metric.WithDescription("Number of rows returned by database queries"),
	)
	logMetricError(metricDBRowsReturned, err)
}

func getDBMeter() metric.Meter {
	meterOnce.Do(initDBMeter)
	return dbMeter
}

// recordDBMetrics records the call counter (with an error attribute), the
// duration histogram and, for successful queries, the rows returned.
func recordDBMetrics(ctx context.Context, tc *Context, query string, duration time.Duration, rowsReturned int, err error) {
	if getDBMeter() == nil {
		return
	}

	isError := err != nil
	commonAttrs := []attribute.KeyValue{
		attribute.String(metricDbSystem, normalizeDBVendor(tc.Vendor)),
		attribute.String(metricDbOperation, extractDBOperation(query)),
		attribute.String(metricDbSQLTable, extractTableName(query)),
	}

	if dbCallsCounter != nil {
		counterAttrs := make([]attribute.KeyValue, 0, len(commonAttrs)+1)
		counterAttrs = append(counterAttrs, commonAttrs...)
		counterAttrs = append(counterAttrs, attribute.Bool("error", isError))
		dbCallsCounter.Add(ctx, 1, metric.WithAttributes(counterAttrs...))
	}

	if dbDurationHistogram != nil {
		durationMs := float64(duration.Nanoseconds()) / 1e6
		dbDurationHistogram.Record(ctx, durationMs, metric.WithAttributes(commonAttrs...))
	}

	if dbRowsReturnedCounter != nil && rowsReturned > 0 && !isError {
		dbRowsReturnedCounter.Add(ctx, int64(rowsReturned), metric.WithAttributes(commonAttrs...))
	}
}

// Matches the first FROM target, optionally schema-qualified and quoted with
// backticks or double quotes.
var selectTableRegex = regexp.MustCompile("(?i)FROM\\s+(?:[`\"]?\\w+[`\"]?\\.)?[`\"]?(\\w+)[`\"]?")

// extractTableName returns the lowercase table of the first FROM in a SELECT,
// which for a UNION is its first branch, or "unknown".
func extractTableName(query string) string {
	query = strings.TrimSpace(query)
	if !strings.HasPrefix(strings.ToUpper(query), "SELECT") {
		return unknownTable
	}
	if matches := selectTableRegex.FindStringSubmatch(query); len(matches) > 1 {
		return strings.ToLower(matches[1])
	}
	return unknownTable
}

// PoolStats is implemented by clients that can report connection pool usage.
type PoolStats interface {
	Stats() (inUse, idle, maxOpen int64)
}

type poolMetricsRegistration struct {
	conn        PoolStats
	activeGauge metric.Int64ObservableGauge
	idleGauge   metric.Int64ObservableGauge
	totalGauge  metric.Int64ObservableGauge
	attrs       []attribute.KeyValue
}

func (r *poolMetricsRegistration) observePoolStats(_ context.Context, observer metric.Observer) error {
	inUse, idle, maxOpen := r.conn.Stats()

	if r.activeGauge != nil {
		observer.ObserveInt64(r.activeGauge, inUse, metric.WithAttributes(r.attrs...))
	}
	if r.idleGauge != nil {
		observer.ObserveInt64(r.idleGauge, idle, metric.WithAttributes(r.attrs...))
	}
	if r.totalGauge != nil {
		observer.ObserveInt64(r.totalGauge, maxOpen, metric.WithAttributes(r.attrs...))
	}
	return nil
}

func createGauge(meter metric.Meter, name, description string) metric.Int64ObservableGauge {
	gauge, err := meter.Int64ObservableGauge(name, metric.WithDescription(description))
	logMetricError(name, err)
	return gauge
}

// RegisterConnectionPoolMetrics registers observable gauges reporting the
// active, idle and maximum connections of conn. The returned function
// unregisters them; it is always safe to call.
func RegisterConnectionPoolMetrics(conn PoolStats, vendor string) func() {
	noop := func() {}

	meter := getDBMeter()
	if meter == nil || conn == nil {
		return noop
	}

	reg := &poolMetricsRegistration{
		conn:  conn,
		attrs: []attribute.KeyValue{attribute.String(metricDbSystem, normalizeDBVendor(vendor))},
	}
	reg.activeGauge = createGauge(meter, metricPoolActive, "Number of active database connections")
	reg.idleGauge = createGauge(meter, metricPoolIdle, "Number of idle database connections")
	reg.totalGauge = createGauge(meter, metricPoolTotal, "Maximum number of database connections configured")

	var instruments []metric.Observable
	for _, g := range []metric.Int64ObservableGauge{reg.activeGauge, reg.idleGauge, reg.totalGauge} {
		if g != nil {
			instruments = append(instruments, g)
		}
	}
	if len(instruments) == 0 {
		return noop
	}

	registration, err := meter.RegisterCallback(reg.observePoolStats, instruments...)
	if err != nil {
		logMetricError("pool_metrics_callback", err)
		return noop
	}

	return func() {
		if err := registration.Unregister(); err != nil {
			logMetricError("pool_metrics_unregister", err)
		}
	}
}
