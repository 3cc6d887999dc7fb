package tracking

import (
	"context"
	"sync"
	"time"

	"github.com/querychain/querychain/config"
	"github.com/querychain/querychain/database/types"
	"github.com/querychain/querychain/logger"
)

// Client wraps a types.Client and tracks every query it runs. Results and
// errors of the wrapped client are returned unchanged.
type Client struct {
	client   types.Client
	logger   logger.Logger
	vendor   string
	settings Settings

	serverAddress string
	serverPort    int
	namespace     string

	unregisterPool func()
	closeOnce      sync.Once
}

var _ types.Client = (*Client)(nil)

// NewClient wraps client. The vendor is taken from client.DatabaseType() and
// the tracking settings and server metadata from cfg, which may be nil.
// Pool gauges are registered when client implements PoolStats.
func NewClient(client types.Client, log logger.Logger, cfg *config.DatabaseConfig) *Client {
	c := &Client{
		client:         client,
		logger:         log,
		vendor:         client.DatabaseType(),
		settings:       NewSettings(cfg),
		unregisterPool: func() {},
	}

	if cfg != nil {
		c.serverAddress = cfg.Host
		c.serverPort = cfg.Port
		c.namespace = cfg.Database
	}

	if stats, ok := client.(PoolStats); ok {
		c.unregisterPool = RegisterConnectionPoolMetrics(stats, c.vendor)
	}

	return c
}

// RawQuery runs query on the wrapped client and tracks it.
func (c *Client) RawQuery(ctx context.Context, query string) (types.RowSet, error) {
	start := time.Now()
	rows, err := c.client.RawQuery(ctx, query)

	TrackDBOperation(ctx, &Context{
		Logger:        c.logger,
		Vendor:        c.vendor,
		Settings:      c.settings,
		ServerAddress: c.serverAddress,
		ServerPort:    c.serverPort,
		Namespace:     c.namespace,
	}, query, start, len(rows), err)

	return rows, err
}

// DatabaseType returns the wrapped client's vendor.
func (c *Client) DatabaseType() string {
	return c.vendor
}

// Close unregisters pool gauges and closes the wrapped client.
func (c *Client) Close() error {
	c.closeOnce.Do(c.unregisterPool)
	return c.client.Close()
}

// Unwrap returns the wrapped client.
func (c *Client) Unwrap() types.Client {
	return c.client
}
