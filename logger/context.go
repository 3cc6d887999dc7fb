package logger

import (
	"context"
	"sync/atomic"
	"time"
)

type queryStatsKey struct{}

// QueryStats accumulates the database work done on behalf of one request.
// All methods are safe for concurrent use and on a nil receiver.
type QueryStats struct {
	queries  atomic.Int64
	failures atomic.Int64
	rows     atomic.Int64
	elapsed  atomic.Int64
}

// WithQueryStats returns a context carrying a fresh QueryStats.
func WithQueryStats(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStatsKey{}, &QueryStats{})
}

// QueryStatsFrom returns the QueryStats attached to ctx, or nil.
func QueryStatsFrom(ctx context.Context) *QueryStats {
	if ctx == nil {
		return nil
	}
	stats, _ := ctx.Value(queryStatsKey{}).(*QueryStats)
	return stats
}

// Record adds one finished query.
func (s *QueryStats) Record(elapsed time.Duration, rows int, err error) {
	if s == nil {
		return
	}
	s.queries.Add(1)
	s.elapsed.Add(int64(elapsed))
	if err != nil {
		s.failures.Add(1)
		return
	}
	s.rows.Add(int64(rows))
}

// Queries returns the number of recorded queries.
func (s *QueryStats) Queries() int64 {
	if s == nil {
		return 0
	}
	return s.queries.Load()
}

// Failures returns how many recorded queries failed.
func (s *QueryStats) Failures() int64 {
	if s == nil {
		return 0
	}
	return s.failures.Load()
}

// Rows returns the rows returned by successful queries.
func (s *QueryStats) Rows() int64 {
	if s == nil {
		return 0
	}
	return s.rows.Load()
}

// Elapsed returns the summed query time.
func (s *QueryStats) Elapsed() time.Duration {
	if s == nil {
		return 0
	}
	return time.Duration(s.elapsed.Load())
}
