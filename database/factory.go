package database

import (
	"github.com/querychain/querychain/config"
	"github.com/querychain/querychain/database/internal/tracking"
	"github.com/querychain/querychain/database/mysql"
	"github.com/querychain/querychain/database/postgresql"
	"github.com/querychain/querychain/database/types"
	"github.com/querychain/querychain/logger"
)

var (
	openMySQL = func(cfg *config.DatabaseConfig, log logger.Logger) (types.Client, error) {
		conn, err := mysql.NewConnection(cfg, log)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	openPostgreSQL = func(cfg *config.DatabaseConfig, log logger.Logger) (types.Client, error) {
		conn, err := postgresql.NewConnection(cfg, log)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
)

// NewClient validates cfg, connects to the configured vendor and returns the
// client wrapped with query tracking. A configuration missing host, username,
// password, port or db fails with a *config.ConfigError before any connection
// is attempted.
func NewClient(cfg *config.DatabaseConfig, log logger.Logger) (types.Client, error) {
	if err := config.ValidateDatabase(cfg); err != nil {
		return nil, err
	}

	var (
		client types.Client
		err    error
	)
	switch cfg.Type {
	case types.MySQL:
		client, err = openMySQL(cfg, log)
	case types.PostgreSQL:
		client, err = openPostgreSQL(cfg, log)
	default:
		return nil, config.NewInvalidFieldError("database.type", "unsupported database type "+cfg.Type, SupportedDatabaseTypes())
	}
	if err != nil {
		return nil, err
	}

	return tracking.NewClient(client, log, cfg), nil
}

// OpenImmediate connects with NewClient and returns an ImmediateBuilder owning the client.
func OpenImmediate(cfg *config.DatabaseConfig, log logger.Logger) (*ImmediateBuilder, error) {
	client, err := NewClient(cfg, log)
	if err != nil {
		return nil, err
	}
	return NewImmediateBuilder(client), nil
}

// OpenDeferred connects with NewClient and returns a DeferredBuilder owning the client.
func OpenDeferred(cfg *config.DatabaseConfig, log logger.Logger) (*DeferredBuilder, error) {
	client, err := NewClient(cfg, log)
	if err != nil {
		return nil, err
	}
	return NewDeferredBuilder(client), nil
}

// SupportedDatabaseTypes returns the vendors NewClient can connect to.
func SupportedDatabaseTypes() []string {
	return []string{types.MySQL, types.PostgreSQL}
}
