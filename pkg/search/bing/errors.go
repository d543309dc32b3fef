package bing

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUsage marks calls rejected before any network activity.
var ErrUsage = errors.New("bing: usage error")

var (
	ErrCallbackRequired   = fmt.Errorf("%w: callback function required", ErrUsage)
	ErrEmptyQuery         = fmt.Errorf("%w: query is required", ErrUsage)
	ErrUnknownVertical    = fmt.Errorf("%w: unknown vertical", ErrUsage)
	ErrFilterNotSupported = fmt.Errorf("%w: filter mapping not supported by vertical", ErrUsage)
	ErrInvalidOption      = fmt.Errorf("%w: invalid option", ErrUsage)
)

// ErrProtocol matches both StatusError and ParseError.
var ErrProtocol = errors.New("bing: protocol error")

// StatusError is returned for any non-200 reply. Its message is the raw
// response body so provider error details reach the caller untouched.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return "bing: unexpected status " + strconv.Itoa(e.StatusCode)
	}
	return e.Body
}

func (e *StatusError) Is(target error) bool {
	return target == ErrProtocol
}

// ParseError is returned when a 200 reply does not hold valid JSON.
type ParseError struct {
	Body string
	Err  error
}

func (e *ParseError) Error() string {
	return "bing: parse response: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrProtocol
}
