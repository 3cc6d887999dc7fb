// Package tracking provides performance tracking for database clients.
// It wraps a types.Client with structured query logging, slow query detection,
// request-scoped counters, OpenTelemetry spans and metrics.
package tracking

import (
	"time"

	"github.com/querychain/querychain/config"
	"github.com/querychain/querychain/logger"
)

const (
	// DefaultSlowQueryThreshold defines the default threshold for slow query detection
	DefaultSlowQueryThreshold = 200 * time.Millisecond
	// DefaultMaxQueryLength defines the default maximum query length for logging
	DefaultMaxQueryLength = 1000
)

// Settings holds configuration for query tracking and logging.
type Settings struct {
	slowQueryThreshold time.Duration
	maxQueryLength     int
}

// Context groups the parameters shared by the tracking functions.
type Context struct {
	Logger   logger.Logger
	Vendor   string
	Settings Settings

	// Server metadata reported as span attributes when set.
	ServerAddress string
	ServerPort    int
	Namespace     string
}

// NewSettings creates Settings populated from cfg. A nil cfg or non-positive
// values fall back to DefaultSlowQueryThreshold and DefaultMaxQueryLength.
func NewSettings(cfg *config.DatabaseConfig) Settings {
	settings := Settings{
		slowQueryThreshold: DefaultSlowQueryThreshold,
		maxQueryLength:     DefaultMaxQueryLength,
	}

	if cfg == nil {
		return settings
	}

	if cfg.Query.Slow.Threshold > 0 {
		settings.slowQueryThreshold = cfg.Query.Slow.Threshold
	}
	if cfg.Query.Log.MaxLength > 0 {
		settings.maxQueryLength = cfg.Query.Log.MaxLength
	}

	return settings
}

// SlowQueryThreshold returns the threshold for slow query detection
func (s Settings) SlowQueryThreshold() time.Duration {
	return s.slowQueryThreshold
}

// MaxQueryLength returns the maximum query length for logging
func (s Settings) MaxQueryLength() int {
	return s.maxQueryLength
}
