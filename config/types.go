package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config represents the overall configuration structure.
// It includes the database connection details and logging preferences.
// The embedded koanf.Koanf instance allows for flexible access to
// additional custom configurations not explicitly defined in the struct.
type Config struct {
	Database DatabaseConfig `koanf:"database" json:"database" yaml:"database" mapstructure:"database"`
	Log      LogConfig      `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`

	// k holds the underlying Koanf instance for flexible access to custom configurations
	k *koanf.Koanf `json:"-" yaml:"-" mapstructure:"-"`
}

// DatabaseConfig holds database connection settings.
// Host, Username, Password, Port and Database are mandatory; a client is never
// constructed from a record missing any of them.
type DatabaseConfig struct {
	Type     string `koanf:"type" json:"type" yaml:"type" mapstructure:"type"`
	Host     string `koanf:"host" json:"host" yaml:"host" mapstructure:"host" validate:"required"`
	Port     int    `koanf:"port" json:"port" yaml:"port" mapstructure:"port" validate:"required,min=1,max=65535"`
	Database string `koanf:"db" json:"db" yaml:"db" mapstructure:"db" validate:"required"`
	Username string `koanf:"username" json:"username" yaml:"username" mapstructure:"username" validate:"required"`
	Password string `koanf:"password" json:"password" yaml:"password" mapstructure:"password" validate:"required"`

	// Timeout bounds the initial connectivity check. Default: 10s.
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// SSLMode is passed through to PostgreSQL connections only.
	SSLMode string `koanf:"sslmode" json:"sslmode" yaml:"sslmode" mapstructure:"sslmode"`

	Pool  PoolConfig  `koanf:"pool" json:"pool" yaml:"pool" mapstructure:"pool"`
	Query QueryConfig `koanf:"query" json:"query" yaml:"query" mapstructure:"query"`
}

// PoolConfig holds connection pool settings.
// Defaults are applied by ValidateDatabase when values are zero:
//   - Max.Connections: 25
//   - Idle.Connections: 2
//   - Idle.Time: 5m
//   - Lifetime.Max: 30m
type PoolConfig struct {
	Max      PoolMaxConfig  `koanf:"max" json:"max" yaml:"max" mapstructure:"max"`
	Idle     PoolIdleConfig `koanf:"idle" json:"idle" yaml:"idle" mapstructure:"idle"`
	Lifetime LifetimeConfig `koanf:"lifetime" json:"lifetime" yaml:"lifetime" mapstructure:"lifetime"`
}

// PoolMaxConfig holds maximum connections settings.
type PoolMaxConfig struct {
	Connections int32 `koanf:"connections" json:"connections" yaml:"connections" mapstructure:"connections"`
}

// PoolIdleConfig holds idle connections settings.
type PoolIdleConfig struct {
	Connections int32         `koanf:"connections" json:"connections" yaml:"connections" mapstructure:"connections"`
	Time        time.Duration `koanf:"time" json:"time" yaml:"time" mapstructure:"time"`
}

// LifetimeConfig holds maximum lifetime settings for connections.
type LifetimeConfig struct {
	Max time.Duration `koanf:"max" json:"max" yaml:"max" mapstructure:"max"`
}

// QueryConfig holds settings related to query logging and slow query detection.
type QueryConfig struct {
	Slow SlowQueryConfig `koanf:"slow" json:"slow" yaml:"slow" mapstructure:"slow"`
	Log  QueryLogConfig  `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`
}

// SlowQueryConfig holds settings for slow query detection.
type SlowQueryConfig struct {
	Threshold time.Duration `koanf:"threshold" json:"threshold" yaml:"threshold" mapstructure:"threshold"`
}

// QueryLogConfig holds settings for query logging.
type QueryLogConfig struct {
	MaxLength int `koanf:"max" json:"max" yaml:"max" mapstructure:"max"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" mapstructure:"level"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty" mapstructure:"pretty"`
}

// Koanf returns the koanf instance the configuration was loaded from, or nil
// for configurations built by hand.
func (c *Config) Koanf() *koanf.Koanf {
	return c.k
}
