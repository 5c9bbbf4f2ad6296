package errors

import (
	"github.com/go-kratos/kratos/v2/errors"
)

// Common HTTP status codes
const (
	// Client errors (4xx)
	StatusBadRequest      = 400
	StatusNotFound        = 404
	StatusConflict        = 409
	StatusTooManyRequests = 429

	// Server errors (5xx)
	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
	StatusGatewayTimeout      = 504
)

// ErrTooManyRequests 限流拒绝
var ErrTooManyRequests = errors.New(StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many requests")

// NewConflict creates a new conflict error.
func NewConflict(reason, message string) *errors.Error {
	return errors.Conflict(reason, message)
}

// FromError converts any error into a kratos error. Unknown errors become 500.
func FromError(err error) *errors.Error {
	return errors.FromError(err)
}

// StatusCode returns the HTTP status carried by err.
func StatusCode(err error) int {
	return errors.Code(err)
}
