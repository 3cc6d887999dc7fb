package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/querychain/querychain/database/types"
)

const (
	defaultSlowQueryThreshold = 200 * time.Millisecond
	defaultMaxQueryLength     = 1000
	defaultConnectTimeout     = 10 * time.Second
	defaultMaxConns           = 25
	defaultIdleConns          = 2
	defaultIdleTime           = 5 * time.Minute
	defaultConnLifetime       = 30 * time.Minute
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report koanf keys instead of Go field names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks the database and log sections of cfg.
func Validate(cfg *Config) error {
	if err := ValidateDatabase(&cfg.Database); err != nil {
		return err
	}

	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	return nil
}

// ValidateDatabase verifies that every mandatory connection field is present,
// that the vendor is supported and applies pool and query defaults in place.
// Failures are returned as *ConfigError.
func ValidateDatabase(cfg *DatabaseConfig) error {
	if cfg == nil {
		return NewMissingFieldError("database", "DATABASE_HOST", "database")
	}

	if err := structValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fieldError(verrs[0])
		}
		return NewValidationError("database", err.Error())
	}

	if cfg.Type == "" {
		cfg.Type = types.MySQL
	}
	if err := validateDatabaseType(cfg.Type); err != nil {
		return err
	}

	return applyDatabaseDefaults(cfg)
}

// fieldError converts a validator failure into the ConfigError reported to callers.
func fieldError(fe validator.FieldError) *ConfigError {
	field := "database." + fe.Field()
	envVar := strings.ToUpper(strings.ReplaceAll(field, ".", "_"))

	if fe.Tag() == "required" {
		return NewMissingFieldError(field, envVar, field)
	}
	return NewValidationError(field, fmt.Sprintf("invalid value %v (%s=%s)", fe.Value(), fe.Tag(), fe.Param()))
}

func validateDatabaseType(dbType string) error {
	validTypes := []string{types.MySQL, types.PostgreSQL}
	if !slices.Contains(validTypes, dbType) {
		return NewInvalidFieldError("database.type", "unsupported database type "+dbType, validTypes)
	}
	return nil
}

// applyDatabaseDefaults fills zero pool, timeout and query settings and
// rejects negative ones.
func applyDatabaseDefaults(cfg *DatabaseConfig) error {
	if cfg.Pool.Max.Connections < 0 {
		return NewValidationError("database.pool.max.connections", "must be positive")
	}
	if cfg.Pool.Max.Connections == 0 {
		cfg.Pool.Max.Connections = defaultMaxConns
	}
	if cfg.Pool.Idle.Connections == 0 {
		cfg.Pool.Idle.Connections = defaultIdleConns
	}
	if cfg.Pool.Idle.Time == 0 {
		cfg.Pool.Idle.Time = defaultIdleTime
	}
	if cfg.Pool.Lifetime.Max == 0 {
		cfg.Pool.Lifetime.Max = defaultConnLifetime
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultConnectTimeout
	}

	if cfg.Query.Log.MaxLength < 0 {
		return NewValidationError("database.query.log.max", "must be zero or positive")
	}
	if cfg.Query.Log.MaxLength == 0 {
		cfg.Query.Log.MaxLength = defaultMaxQueryLength
	}

	if cfg.Query.Slow.Threshold < 0 {
		return NewValidationError("database.query.slow.threshold", "must be zero or positive")
	}
	if cfg.Query.Slow.Threshold == 0 {
		cfg.Query.Slow.Threshold = defaultSlowQueryThreshold
	}

	return nil
}

// validateLog validates that cfg.Level is one of the supported log levels.
func validateLog(cfg *LogConfig) error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}
	if !slices.Contains(validLevels, cfg.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)",
			cfg.Level, strings.Join(validLevels, ", "))
	}

	return nil
}
