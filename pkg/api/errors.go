package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels matched by the concrete error types through errors.Is.
var (
	ErrInvalidJSON      = errors.New("invalid JSON response")
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	ErrMissingKey       = errors.New("missing key in response")
)

// ParseError is returned when a response body cannot be decoded as JSON.
type ParseError struct {
	Context string
	Body    []byte
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s failed: invalid JSON response (%v):\n%s", e.Context, e.Err, e.Body)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrInvalidJSON }

// StatusError is returned when the HTTP status is outside the expected set.
type StatusError struct {
	Context    string
	StatusCode int
	Expected   []int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed (HTTP %d):\n%s", e.Context, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool { return target == ErrUnexpectedStatus }

// MissingKeyError is returned when a required key path is absent from an
// otherwise valid response. Path is the full dotted path that was requested.
type MissingKeyError struct {
	Context string
	Path    string
	Body    []byte
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s failed: missing key '%s' in response:\n%s", e.Context, e.Path, e.Body)
}

func (e *MissingKeyError) Is(target error) bool { return target == ErrMissingKey }

// IsNotFound reports whether err carries a 404 status from the platform.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// IsAPIError reports whether err is one of the three response validation
// failures, as opposed to a transport or context error.
func IsAPIError(err error) bool {
	return errors.Is(err, ErrInvalidJSON) || errors.Is(err, ErrUnexpectedStatus) || errors.Is(err, ErrMissingKey)
}
