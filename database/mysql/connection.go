// Package mysql provides the MySQL client used by the query builders.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/querychain/querychain/config"
	"github.com/querychain/querychain/database/internal/rowset"
	"github.com/querychain/querychain/database/types"
	"github.com/querychain/querychain/logger"
)

const (
	driverName        = "mysql"
	defaultTimeout    = 10 * time.Second
	healthPingTimeout = 5 * time.Second
)

// Connection implements types.Client for MySQL.
type Connection struct {
	db     *sqlx.DB
	config *config.DatabaseConfig
	logger logger.Logger
}

var _ types.Client = (*Connection)(nil)

var (
	openMySQLDB = func(dsn string) (*sql.DB, error) {
		return sql.Open(driverName, dsn)
	}
	pingMySQLDB = func(ctx context.Context, db *sql.DB) error {
		return db.PingContext(ctx)
	}
)

// buildDSN renders the driver DSN for cfg. Temporal columns are left as text.
func buildDSN(cfg *config.DatabaseConfig) string {
	dsn := mysqldrv.NewConfig()
	dsn.User = cfg.Username
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dsn.DBName = cfg.Database
	dsn.Timeout = cfg.Timeout
	dsn.ParseTime = false
	return dsn.FormatDSN()
}

// NewConnection opens a pooled MySQL connection and verifies it with a ping
// bounded by cfg.Timeout. Pool settings are applied as given; cfg is expected
// to have passed config.ValidateDatabase, which fills in their defaults.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (*Connection, error) {
	db, err := openMySQLDB(buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

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

	if err := pingMySQLDB(ctx, db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close MySQL database connection after ping failure")
		}
		return nil, fmt.Errorf("failed to ping MySQL database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("Connected to MySQL database")

	return &Connection{
		db:     sqlx.NewDb(db, driverName),
		config: cfg,
		logger: log,
	}, nil
}

// RawQuery executes query as-is and returns every row. Driver failures are
// returned as *types.QueryError carrying the MySQL error number.
func (c *Connection) RawQuery(ctx context.Context, query string) (types.RowSet, error) {
	rows, err := rowset.Query(ctx, c.db, query)
	if err != nil {
		return nil, translateError(err)
	}
	return rows, nil
}

func translateError(err error) error {
	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) {
		qe := types.NewQueryError(myErr.Message, int(myErr.Number), err)
		if myErr.SQLState != [5]byte{} {
			qe.SQLState = string(myErr.SQLState[:])
		}
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

// Close closes the connection pool.
func (c *Connection) Close() error {
	c.logger.Info().Msg("Closing MySQL database connection")
	return c.db.Close()
}

// DatabaseType returns the database type
func (c *Connection) DatabaseType() string {
	return types.MySQL
}
