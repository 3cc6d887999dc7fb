//go:build integration

// Package containers starts database servers with testcontainers for
// integration tests. Tests are skipped when Docker is not available.
package containers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/querychain/querychain/config"
	"github.com/querychain/querychain/database/types"
	testconsts "github.com/querychain/querychain/testing"
)

// MySQLContainerConfig holds configuration for the MySQL test container
type MySQLContainerConfig struct {
	// ImageTag specifies the MySQL version (default: "8.4")
	ImageTag string
	// Username for MySQL authentication
	Username string
	// Password for MySQL authentication
	Password string
	// Database name to create
	Database string
	// StartupTimeout for container initialization (default: 90 seconds)
	StartupTimeout time.Duration
}

// DefaultMySQLConfig returns a MySQLContainerConfig populated with test defaults.
func DefaultMySQLConfig() *MySQLContainerConfig {
	return &MySQLContainerConfig{
		ImageTag:       "8.4",
		Username:       testconsts.TestUsername,
		Password:       testconsts.TestPasswordDefault,
		Database:       testconsts.TestDatabaseName,
		StartupTimeout: 90 * time.Second,
	}
}

// MySQLContainer wraps a running MySQL testcontainer.
type MySQLContainer struct {
	container *mysql.MySQLContainer
	cfg       *MySQLContainerConfig
}

// StartMySQLContainer starts a MySQL testcontainer. A nil cfg selects
// DefaultMySQLConfig. The test is skipped when Docker is not available.
func StartMySQLContainer(ctx context.Context, t *testing.T, cfg *MySQLContainerConfig) (*MySQLContainer, error) {
	t.Helper()

	if cfg == nil {
		cfg = DefaultMySQLConfig()
	}

	if !isDockerAvailable(ctx) {
		t.Skip("Docker is not available - skipping integration test. Install Docker Desktop or ensure Docker daemon is running.")
		return nil, nil
	}

	container, err := mysql.Run(ctx,
		fmt.Sprintf("mysql:%s", cfg.ImageTag),
		mysql.WithDatabase(cfg.Database),
		mysql.WithUsername(cfg.Username),
		mysql.WithPassword(cfg.Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("port: 3306  MySQL Community Server").
				WithStartupTimeout(cfg.StartupTimeout),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start MySQL container: %w", err)
	}

	t.Logf("MySQL container started (database %s)", cfg.Database)

	return &MySQLContainer{container: container, cfg: cfg}, nil
}

// MustStartMySQLContainer is StartMySQLContainer failing the test on error.
func MustStartMySQLContainer(ctx context.Context, t *testing.T, cfg *MySQLContainerConfig) *MySQLContainer {
	t.Helper()

	container, err := StartMySQLContainer(ctx, t, cfg)
	if err != nil {
		t.Fatalf("Failed to start MySQL container: %v", err)
	}
	return container
}

// DatabaseConfig returns a client configuration pointing at the container.
func (m *MySQLContainer) DatabaseConfig(ctx context.Context) (*config.DatabaseConfig, error) {
	if m.container == nil {
		return nil, fmt.Errorf("container not initialized")
	}

	host, err := m.container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := m.container.MappedPort(ctx, "3306/tcp")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	return &config.DatabaseConfig{
		Type:     types.MySQL,
		Host:     host,
		Port:     port.Int(),
		Database: m.cfg.Database,
		Username: m.cfg.Username,
		Password: m.cfg.Password,
		Timeout:  30 * time.Second,
	}, nil
}

// Terminate stops and removes the MySQL container
func (m *MySQLContainer) Terminate(ctx context.Context) error {
	if m.container == nil {
		return nil
	}
	return m.container.Terminate(ctx)
}

// WithCleanup registers a cleanup function to terminate the container when the test finishes
func (m *MySQLContainer) WithCleanup(t *testing.T) *MySQLContainer {
	t.Helper()
	t.Cleanup(func() {
		if err := m.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate MySQL container: %v", err)
		}
	})
	return m
}
