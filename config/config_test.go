package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querychain/querychain/database/types"
)

const validYAML = `
database:
  host: db.internal
  port: 3306
  db: shop
  username: app
  password: s3cret
log:
  level: debug
`

// setDatabaseEnv sets the mandatory connection variables for the duration of the test.
func setDatabaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_PORT", "3306")
	t.Setenv("DATABASE_DB", "testdb")
	t.Setenv("DATABASE_USERNAME", "root")
	t.Setenv("DATABASE_PASSWORD", "root")
}

func TestLoadBytes(t *testing.T) {
	cfg, err := LoadBytes([]byte(validYAML))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, types.MySQL, cfg.Database.Type)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "shop", cfg.Database.Database)
	assert.Equal(t, "app", cfg.Database.Username)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 10*time.Second, cfg.Database.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NotNil(t, cfg.Koanf())

	// defaults applied during validation
	assert.Equal(t, int32(defaultMaxConns), cfg.Database.Pool.Max.Connections)
	assert.Equal(t, defaultSlowQueryThreshold, cfg.Database.Query.Slow.Threshold)
	assert.Equal(t, defaultMaxQueryLength, cfg.Database.Query.Log.MaxLength)
}

func TestLoadBytesDurations(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
database:
  host: h
  port: 5432
  db: d
  username: u
  password: p
  type: postgresql
  timeout: 3s
  query:
    slow:
      threshold: 50ms
    log:
      max: 64
log:
  pretty: true
`))
	require.NoError(t, err)
	assert.Equal(t, types.PostgreSQL, cfg.Database.Type)
	assert.Equal(t, 3*time.Second, cfg.Database.Timeout)
	assert.Equal(t, 50*time.Millisecond, cfg.Database.Query.Slow.Threshold)
	assert.Equal(t, 64, cfg.Database.Query.Log.MaxLength)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadBytesMissingPassword(t *testing.T) {
	_, err := LoadBytes([]byte(`
database:
  host: h
  port: 3306
  db: d
  username: u
`))
	require.Error(t, err)
	assert.True(t, IsMissing(err))
	assert.Contains(t, err.Error(), "database.password")
}

func TestLoadBytesMalformed(t *testing.T) {
	_, err := LoadBytes([]byte("database: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse yaml")
}

func TestLoadFromEnvironment(t *testing.T) {
	setDatabaseEnv(t)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "testdb", cfg.Database.Database)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFileEnvironmentOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o600))

	t.Setenv("DATABASE_HOST", "override.internal")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "override.internal", cfg.Database.Host)
	assert.Equal(t, "shop", cfg.Database.Database)
}

func TestLoadFileWithoutDatabaseFails(t *testing.T) {
	for _, key := range []string{"DATABASE_HOST", "DATABASE_PORT", "DATABASE_DB", "DATABASE_USERNAME", "DATABASE_PASSWORD"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	_, err := LoadFile("")
	require.Error(t, err)
	assert.True(t, IsMissing(err))
}
