package config

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/querychain/querychain/database/types"
)

const databaseHost = "database.host"

func TestConfigErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		expected string
	}{
		{
			name: "complete error with all fields",
			err: &ConfigError{
				Category: "missing",
				Field:    databaseHost,
				Message:  "required",
				Action:   "set DATABASE_HOST env var or add database.host to config.yaml",
				Details:  []string{"detail1", "detail2"},
			},
			expected: "config_missing: database.host required set DATABASE_HOST env var or add database.host to config.yaml detail1; detail2",
		},
		{
			name: "error without category",
			err: &ConfigError{
				Field:   databaseHost,
				Message: "required",
			},
			expected: "database.host required",
		},
		{
			name:     "empty error",
			err:      &ConfigError{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestNewMissingFieldError(t *testing.T) {
	err := NewMissingFieldError(databaseHost, "DATABASE_HOST", databaseHost)

	assert.Equal(t, CategoryMissing, err.Category)
	assert.Equal(t, "set DATABASE_HOST env var or add database.host to config.yaml", err.Action)
}

func TestNewInvalidFieldError(t *testing.T) {
	err := NewInvalidFieldError("database.type", "unsupported database type sqlite", []string{types.MySQL, types.PostgreSQL})

	assert.Equal(t, "config_invalid: database.type unsupported database type sqlite must be one of: mysql, postgresql", err.Error())

	bare := NewInvalidFieldError("database.type", "bad", nil)
	assert.Empty(t, bare.Action)
}

func TestNewConnectionError(t *testing.T) {
	err := NewConnectionError("database", "ping failed", []string{"check host", "check port"})

	assert.Equal(t, CategoryConnection, err.Category)
	assert.Equal(t, "config_connection: database ping failed check host; check port", err.Error())
}

func TestIsMissing(t *testing.T) {
	missing := NewMissingFieldError(databaseHost, "DATABASE_HOST", databaseHost)

	assert.True(t, IsMissing(missing))
	assert.True(t, IsMissing(fmt.Errorf("wrapped: %w", missing)))
	assert.False(t, IsMissing(NewValidationError(databaseHost, "bad")))
	assert.False(t, IsMissing(errors.New("plain")))
	assert.False(t, IsMissing(nil))
}
