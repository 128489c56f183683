package github

import (
	"errors"
	"fmt"
)

// ErrRequestFailed matches any non-success response from the API.
var ErrRequestFailed = errors.New("github: request failed")

// Failure kinds reported by Kind.
const (
	KindRequestFailed = "request_failed"
	KindNetwork       = "network"
	KindParse         = "parse"
	KindUnknown       = "unknown"
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github: upstream returned %d", e.StatusCode)
}

// Is lets errors.Is(err, ErrRequestFailed) match.
func (e *StatusError) Is(target error) bool {
	return target == ErrRequestFailed
}

// NetworkError wraps a request that could not complete.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("github: request did not complete: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError wraps a body that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("github: decode repository response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Kind classifies err into one of the Kind* constants. A nil error yields "".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var (
		statusErr  *StatusError
		networkErr *NetworkError
		parseErr   *ParseError
	)
	switch {
	case errors.As(err, &statusErr), errors.Is(err, ErrRequestFailed):
		return KindRequestFailed
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &networkErr):
		return KindNetwork
	default:
		return KindUnknown
	}
}
