//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

import (
	"errors"
	"fmt"
)

// QueryError reports a failed statement execution. Message and Code carry the
// driver's own text and numeric error code unchanged.
type QueryError struct {
	Message string
	Code    int
	// SQLState holds the five character SQLSTATE when the driver reports one.
	SQLState string
	Err      error
}

// NewQueryError wraps a driver failure.
func NewQueryError(message string, code int, err error) *QueryError {
	return &QueryError{Message: message, Code: code, Err: err}
}

func (e *QueryError) Error() string {
	switch {
	case e.Code != 0:
		return fmt.Sprintf("query failed (%d): %s", e.Code, e.Message)
	case e.SQLState != "":
		return fmt.Sprintf("query failed (%s): %s", e.SQLState, e.Message)
	default:
		return "query failed: " + e.Message
	}
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// AsQueryError returns the QueryError in err's chain, if any.
func AsQueryError(err error) (*QueryError, bool) {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
