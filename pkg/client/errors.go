package client

import (
	"errors"
	"fmt"
)

// ErrCityNotFound is returned when the provider does not know the requested city.
// Its text is shown to the user verbatim, hence the capital and trailing period.
var ErrCityNotFound = errors.New("City not found. Please try again.")

// StatusError is a non-2xx provider response.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d", e.Endpoint, e.Code)
}

// Retryable reports whether the status is worth another attempt.
// Client errors are final except 429 (rate limiting).
func (e *StatusError) Retryable() bool {
	return e.Code == 429 || e.Code >= 500
}

// ParseError is a response body that could not be decoded or failed validation.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
