// Package postgresql provides a PostgreSQL client for the query builders.
//
// Rendered statements use MySQL syntax for date predicates and paging, so only
// plain WHERE, ORDER BY and UNION statements without DATE_FORMAT or a
// two-argument LIMIT run unchanged on PostgreSQL.
package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/querychain/querychain/config"
	"github.com/querychain/querychain/database/internal/rowset"
	"github.com/querychain/querychain/database/types"
	"github.com/querychain/querychain/logger"
)

const (
	driverName         = "pgx"
	defaultTimeout     = 10 * time.Second
	healthPingTimeout  = 5 * time.Second
	connectTimeoutUnit = time.Second
)

// Connection implements types.Client for PostgreSQL.
type Connection struct {
	db     *sqlx.DB
	config *config.DatabaseConfig
	logger logger.Logger
}

var _ types.Client = (*Connection)(nil)

var (
	openPostgresDB = func(cfg *pgx.ConnConfig) *sql.DB {
		return stdlib.OpenDB(*cfg)
	}
	pingPostgresDB = func(ctx context.Context, db *sql.DB) error {
		return db.PingContext(ctx)
	}
)

// quoteDSN quotes a DSN value according to libpq rules:
// - Returns double single quotes for empty strings (empty value)
// - Escapes backslashes and single quotes
// - Wraps in single quotes when value contains non-alphanumeric/._- characters
func quoteDSN(value string) string {
	if value == "" {
		return "''"
	}

	needsQuoting := false
	for _, r := range value {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') &&
			(r < '0' || r > '9') && r != '.' && r != '_' && r != '-' {
			needsQuoting = true
			break
		}
	}

	if !needsQuoting {
		return value
	}

	escaped := strings.ReplaceAll(value, "\\", "\\\\")
	escaped = strings.ReplaceAll(escaped, "'", "\\'")

	return "'" + escaped + "'"
}

// buildDSN renders a libpq keyword/value connection string for cfg.
func buildDSN(cfg *config.DatabaseConfig) string {
	parts := []string{
		fmt.Sprintf("host=%s", quoteDSN(cfg.Host)),
		fmt.Sprintf("port=%d", cfg.Port),
		fmt.Sprintf("user=%s", quoteDSN(cfg.Username)),
		fmt.Sprintf("password=%s", quoteDSN(cfg.Password)),
		fmt.Sprintf("dbname=%s", quoteDSN(cfg.Database)),
	}

	if cfg.SSLMode != "" {
		parts = append(parts, fmt.Sprintf("sslmode=%s", quoteDSN(cfg.SSLMode)))
	}
	if secs := int(cfg.Timeout / connectTimeoutUnit); secs > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", secs))
	}

	return strings.Join(parts, " ")
}

// NewConnection opens a pooled PostgreSQL connection through pgx and verifies
// it with a ping bounded by cfg.Timeout. Pool settings are applied as given;
// cfg is expected to have passed config.ValidateDatabase, which fills in their
// defaults.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (*Connection, error) {
	pgxConfig, err := pgx.ParseConfig(buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL config: %w", err)
	}

	db := openPostgresDB(pgxConfig)

	db.SetMaxOpenConns(int(cfg.Pool.Max.Connections))
	db.SetMaxIdleConns(int(cfg.Pool.Idle.Connections))
	db.SetConnMaxLifetime(cfg.Pool.Lifetime.Max)
	db.SetConnMaxIdleTime(cfg.Pool.Idle.Time)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := pingPostgresDB(ctx, db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close PostgreSQL database connection after ping failure")
		}
		return nil, fmt.Errorf("failed to ping PostgreSQL database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("Connected to PostgreSQL database")

	return &Connection{
		db:     sqlx.NewDb(db, driverName),
		config: cfg,
		logger: log,
	}, nil
}

// RawQuery executes query as-is and returns every row. Server errors are
// returned as *types.QueryError carrying the SQLSTATE.
func (c *Connection) RawQuery(ctx context.Context, query string) (types.RowSet, error) {
	rows, err := rowset.Query(ctx, c.db, query)
	if err != nil {
		return nil, translateError(err)
	}
	return rows, nil
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		qe := types.NewQueryError(pgErr.Message, 0, err)
		qe.SQLState = pgErr.Code
		return qe
	}
	return types.NewQueryError(err.Error(), 0, err)
}

// Health checks database connectivity
func (c *Connection) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	return c.db.PingContext(ctx)
}

// Stats reports connection pool usage.
func (c *Connection) Stats() (inUse, idle, maxOpen int64) {
	stats := c.db.Stats()
	return int64(stats.InUse), int64(stats.Idle), int64(stats.MaxOpenConnections)
}

// Close closes the database connection
func (c *Connection) Close() error {
	c.logger.Info().Msg("Closing PostgreSQL database connection")
	return c.db.Close()
}

// DatabaseType returns the database type
func (c *Connection) DatabaseType() string {
	return types.PostgreSQL
}
