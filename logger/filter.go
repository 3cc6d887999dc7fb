package logger

import (
	"net/url"
	"reflect"
	"strings"
)

const (
	// DefaultMaxDepth is the default maximum recursion depth for filtering
	DefaultMaxDepth = 8
	// DefaultMaskValue replaces sensitive values in log output
	DefaultMaskValue = "***"
)

// FilterConfig defines the configuration for sensitive data filtering
type FilterConfig struct {
	// SensitiveFields contains field name fragments that should be masked in logs
	SensitiveFields []string
	// MaskValue is the value used to replace sensitive data (default: "***")
	MaskValue string
}

// DefaultFilterConfig returns a configuration masking credentials and connection strings.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"password", "passwd", "pwd",
			"secret", "token",
			"credential", "credentials",
			"dsn", "database_url", "db_url",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks values of sensitive fields before they reach a log event.
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter creates a new filter with the given configuration
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString filters sensitive data from string values
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if f.isSensitiveField(key) {
		return f.maskString(value)
	}
	return value
}

// FilterValue filters sensitive data from any value, descending into maps and slices.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	return f.filterValue(key, value, DefaultMaxDepth)
}

// FilterFields filters a map of fields for sensitive data
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for key, value := range fields {
		filtered[key] = f.FilterValue(key, value)
	}
	return filtered
}

func (f *SensitiveDataFilter) filterValue(key string, value any, depth int) any {
	if f.isSensitiveField(key) {
		if s, ok := value.(string); ok {
			return f.maskString(s)
		}
		return f.config.MaskValue
	}
	if value == nil || depth <= 0 {
		return value
	}

	if m, ok := value.(map[string]any); ok {
		filtered := make(map[string]any, len(m))
		for k, v := range m {
			filtered[k] = f.filterValue(k, v, depth-1)
		}
		return filtered
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() != reflect.Map {
		return value
	}
	filtered := make([]any, rv.Len())
	for i := range rv.Len() {
		filtered[i] = f.filterValue(key, rv.Index(i).Interface(), depth-1)
	}
	return filtered
}

// isSensitiveField checks if a field name is considered sensitive
func (f *SensitiveDataFilter) isSensitiveField(fieldName string) bool {
	lowerFieldName := strings.ToLower(fieldName)
	for _, sensitiveField := range f.config.SensitiveFields {
		if strings.Contains(lowerFieldName, strings.ToLower(sensitiveField)) {
			return true
		}
	}
	return false
}

// maskString masks a sensitive string, keeping the structure of URLs and
// MySQL DSNs so the host stays visible.
func (f *SensitiveDataFilter) maskString(value string) string {
	if value == "" {
		return value
	}

	if strings.Contains(value, "://") {
		if parsed, err := url.Parse(value); err == nil && parsed.User != nil {
			if _, hasPassword := parsed.User.Password(); hasPassword {
				return parsed.Scheme + "://" + parsed.User.Username() + ":" + f.config.MaskValue + "@" + parsed.Host + parsed.EscapedPath()
			}
		}
		return f.config.MaskValue
	}

	// user:password@tcp(host:port)/db
	if at := strings.LastIndex(value, "@"); at > 0 {
		if colon := strings.Index(value[:at], ":"); colon >= 0 {
			return value[:colon+1] + f.config.MaskValue + value[at:]
		}
	}

	return f.config.MaskValue
}
