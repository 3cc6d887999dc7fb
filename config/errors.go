package config

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories reported by ConfigError.
const (
	CategoryMissing    = "missing"
	CategoryInvalid    = "invalid"
	CategoryConnection = "connection"
)

// ConfigError represents a configuration error with actionable guidance.
// All error messages are lowercase following Go conventions.
//
//nolint:revive // ConfigError is intentionally named for clarity in external API usage
type ConfigError struct {
	Category string   // error category: "missing", "invalid", "connection"
	Field    string   // config field path (e.g., "database.host")
	Message  string   // user-friendly error message (lowercase)
	Action   string   // actionable instruction (lowercase)
	Details  []string // additional details or examples
}

// Error implements the error interface with lowercase formatting.
func (e *ConfigError) Error() string {
	var parts []string

	if e.Category != "" {
		parts = append(parts, fmt.Sprintf("config_%s:", e.Category))
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Action != "" {
		parts = append(parts, e.Action)
	}
	if len(e.Details) > 0 {
		parts = append(parts, strings.Join(e.Details, "; "))
	}

	return strings.Join(parts, " ")
}

// NewMissingFieldError creates an error for a required missing configuration field.
func NewMissingFieldError(field, envVar, yamlPath string) *ConfigError {
	return &ConfigError{
		Category: CategoryMissing,
		Field:    field,
		Message:  "required",
		Action:   fmt.Sprintf("set %s env var or add %s to config.yaml", envVar, yamlPath),
	}
}

// NewInvalidFieldError creates an error for an invalid configuration value.
func NewInvalidFieldError(field, message string, validOptions []string) *ConfigError {
	err := &ConfigError{
		Category: CategoryInvalid,
		Field:    field,
		Message:  message,
	}

	if len(validOptions) > 0 {
		err.Action = fmt.Sprintf("must be one of: %s", strings.Join(validOptions, ", "))
	}

	return err
}

// NewConnectionError creates an error for connection failures with configured resources.
func NewConnectionError(resource, message string, troubleshooting []string) *ConfigError {
	return &ConfigError{
		Category: CategoryConnection,
		Field:    resource,
		Message:  message,
		Details:  troubleshooting,
	}
}

// NewValidationError creates a general validation error with custom message.
func NewValidationError(field, message string) *ConfigError {
	return &ConfigError{
		Category: CategoryInvalid,
		Field:    field,
		Message:  message,
	}
}

// IsMissing reports whether err is, or wraps, a ConfigError for an absent field.
func IsMissing(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Category == CategoryMissing
	}
	return false
}
