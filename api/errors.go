package api

import (
	"fmt"

	"github.com/pkg/errors"
)

// NetworkError reports a transport failure or a non-success HTTP status.
// Status is zero when no response was received.
type NetworkError struct {
	Endpoint string
	Status   int
	Body     string
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		if e.Body != "" {
			return fmt.Sprintf("fetch %s: status %d: %s", e.Endpoint, e.Status, e.Body)
		}
		return fmt.Sprintf("fetch %s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a response body that is not the expected JSON.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is, or wraps, a *NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsParse reports whether err is, or wraps, a *ParseError.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
