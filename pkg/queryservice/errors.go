package queryservice

import (
	"errors"
	"fmt"
)

// ConnectionError means the service host could not be reached at all.
// Callers may substitute degraded/demo content for this kind of failure.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("query service unreachable: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ServiceError means the host responded but reported failure, either as a
// non-2xx status or as an explicit error field in a 2xx body. The message is
// the service's own wording and is shown to the user verbatim.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("query service error: status %d", e.StatusCode)
}

// IsConnectionError reports whether err is (or wraps) a ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsServiceError reports whether err is (or wraps) a ServiceError.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
