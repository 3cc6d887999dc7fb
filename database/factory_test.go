package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querychain/querychain/config"
	"github.com/querychain/querychain/database/internal/tracking"
	dbtest "github.com/querychain/querychain/database/testing"
	"github.com/querychain/querychain/database/types"
	"github.com/querychain/querychain/logger"
	testconsts "github.com/querychain/querychain/testing"
)

func validConfig(dbType string) *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Type:     dbType,
		Host:     testconsts.TestHostLocalhost,
		Port:     3306,
		Database: testconsts.TestDatabaseName,
		Username: testconsts.TestUsername,
		Password: testconsts.TestPasswordDefault,
	}
}

// stubOpeners replaces both vendor openers and records which one ran.
func stubOpeners(t *testing.T, client types.Client, err error) *[]string {
	t.Helper()
	origMySQL, origPG := openMySQL, openPostgreSQL

	var calls []string
	openMySQL = func(*config.DatabaseConfig, logger.Logger) (types.Client, error) {
		calls = append(calls, types.MySQL)
		return client, err
	}
	openPostgreSQL = func(*config.DatabaseConfig, logger.Logger) (types.Client, error) {
		calls = append(calls, types.PostgreSQL)
		return client, err
	}

	t.Cleanup(func() {
		openMySQL, openPostgreSQL = origMySQL, origPG
	})
	return &calls
}

func TestNewClientMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.DatabaseConfig)
		field  string
	}{
		{"host", func(c *config.DatabaseConfig) { c.Host = "" }, "database.host"},
		{"username", func(c *config.DatabaseConfig) { c.Username = "" }, "database.username"},
		{"password", func(c *config.DatabaseConfig) { c.Password = "" }, "database.password"},
		{"port", func(c *config.DatabaseConfig) { c.Port = 0 }, "database.port"},
		{"db", func(c *config.DatabaseConfig) { c.Database = "" }, "database.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := stubOpeners(t, dbtest.NewTestDB(types.MySQL), nil)
			cfg := validConfig(types.MySQL)
			tt.mutate(cfg)

			client, err := NewClient(cfg, logger.Nop())
			assert.Nil(t, client)
			require.Error(t, err)
			assert.True(t, config.IsMissing(err))

			var cfgErr *config.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Empty(t, *calls, "no connection attempt on invalid configuration")
		})
	}
}

func TestNewClientNilConfig(t *testing.T) {
	client, err := NewClient(nil, logger.Nop())
	assert.Nil(t, client)
	assert.True(t, config.IsMissing(err))
}

func TestNewClientUnsupportedType(t *testing.T) {
	calls := stubOpeners(t, nil, nil)

	_, err := NewClient(validConfig("oracle"), logger.Nop())

	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.CategoryInvalid, cfgErr.Category)
	assert.Empty(t, *calls)
}

func TestNewClientSelectsVendor(t *testing.T) {
	tests := []struct {
		dbType string
		want   string
	}{
		{dbType: types.MySQL, want: types.MySQL},
		{dbType: "", want: types.MySQL},
		{dbType: types.PostgreSQL, want: types.PostgreSQL},
	}

	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.dbType, func(t *testing.T) {
			fake := dbtest.NewTestDB(tt.want).AllowUnexpected()
			calls := stubOpeners(t, fake, nil)

			client, err := NewClient(validConfig(tt.dbType), logger.Nop())
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, *calls)
			assert.Equal(t, tt.want, client.DatabaseType())

			tracked, ok := client.(*tracking.Client)
			require.True(t, ok, "clients are wrapped with tracking")
			assert.Same(t, fake, tracked.Unwrap())

			_, err = client.RawQuery(context.Background(), "SELECT 1")
			require.NoError(t, err)
			dbtest.AssertQueryExecuted(t, fake, "SELECT 1")
		})
	}
}

func TestNewClientConnectError(t *testing.T) {
	connectErr := errors.New("failed to ping MySQL database: connection refused")
	stubOpeners(t, nil, connectErr)

	client, err := NewClient(validConfig(types.MySQL), logger.Nop())
	assert.Nil(t, client)
	assert.Same(t, connectErr, err)
}

func TestOpenBuilders(t *testing.T) {
	fake := dbtest.NewTestDB(types.MySQL).AllowUnexpected()
	stubOpeners(t, fake, nil)

	immediate, err := OpenImmediate(validConfig(types.MySQL), logger.Nop())
	require.NoError(t, err)
	_, err = immediate.GetAll(context.Background(), "users")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users", fake.LastQuery())

	deferred, err := OpenDeferred(validConfig(types.MySQL), logger.Nop())
	require.NoError(t, err)
	_, err = deferred.BuildQuery("orders").RunQuery(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM orders", fake.LastQuery())

	require.NoError(t, deferred.Close())
	assert.True(t, fake.IsClosed())

	_, err = OpenImmediate(&config.DatabaseConfig{}, logger.Nop())
	assert.True(t, config.IsMissing(err))
	_, err = OpenDeferred(&config.DatabaseConfig{}, logger.Nop())
	assert.True(t, config.IsMissing(err))
}

func TestOpenImmediateRecordsQueryStats(t *testing.T) {
	fake := dbtest.NewTestDB(types.MySQL).
		ExpectQuery("FROM users").
		WillReturnRows(dbtest.NewRowSet("id").AddRow(1).AddRow(2))
	stubOpeners(t, fake, nil)

	immediate, err := OpenImmediate(validConfig(types.MySQL), logger.Nop())
	require.NoError(t, err)

	ctx := logger.WithQueryStats(context.Background())
	_, err = immediate.GetAll(ctx, "users")
	require.NoError(t, err)
	_, err = immediate.GetAll(ctx, "orders")
	require.Error(t, err)

	stats := logger.QueryStatsFrom(ctx)
	assert.Equal(t, int64(2), stats.Queries())
	assert.Equal(t, int64(1), stats.Failures())
	assert.Equal(t, int64(2), stats.Rows())
}

func TestSupportedDatabaseTypes(t *testing.T) {
	assert.Equal(t, []string{"mysql", "postgresql"}, SupportedDatabaseTypes())
}
