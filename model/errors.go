package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoCandidates is returned when a provider answers without any message.
var ErrNoCandidates = errors.New("no candidates returned")

// Error is a provider failure annotated with its retry class.
type Error struct {
	Provider   string
	StatusCode int
	Transient  bool
	Err        error
}

func (e *Error) Error() string {
	kind := "fatal"
	if e.Transient {
		kind = "transient"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s api error (%s, status %d): %v", e.Provider, kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s api error (%s): %v", e.Provider, kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err for provider, classifying it by HTTP status code.
func NewError(provider string, statusCode int, err error) *Error {
	return &Error{
		Provider:   provider,
		StatusCode: statusCode,
		Transient:  IsTransientStatus(statusCode),
		Err:        err,
	}
}

// IsTransientStatus reports whether an HTTP status indicates a retryable
// condition: request timeout, conflict, rate limiting or a server error.
func IsTransientStatus(code int) bool {
	switch {
	case code == http.StatusRequestTimeout, code == http.StatusConflict, code == http.StatusTooManyRequests:
		return true
	case code >= 500:
		return true
	}
	return false
}

// IsTransient reports whether err was classified as transient. Context
// cancellation and deadline errors are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var me *Error
	if errors.As(err, &me) {
		return me.Transient
	}

	return false
}
