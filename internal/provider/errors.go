package provider

import (
	"errors"
	"fmt"

	"github.com/google/go-github/v66/github"
)

// BusinessError is the provider's classification for a response the
// server understood and rejected: a non-2xx status with a decodable error
// body. It carries the status code and the provider's own message so
// callers can decide whether the failure is actionable.
type BusinessError struct {
	StatusCode int
	Message    string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("provider business error (status %d): %s", e.StatusCode, e.Message)
}

// TransportError is the provider's classification for anything that isn't
// a business error: network failures, timeouts, a nil response, or any
// other error go-github returns that doesn't unwrap to *github.ErrorResponse.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("provider transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// classify turns a raw (err, *github.Response) pair from a go-github call
// into the three-way success/business-error/transport-error taxonomy. A
// nil err is success regardless of resp.
func classify(err error, resp *github.Response) error {
	if err == nil {
		return nil
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		return &BusinessError{StatusCode: ghErr.Response.StatusCode, Message: ghErr.Message}
	}
	return &TransportError{Err: err}
}
