package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNetwork            = errors.New("network error")
	ErrTimeout            = errors.New("request timed out")
	ErrValidation         = errors.New("validation failed")
	ErrAuth               = errors.New("not authenticated")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrServer             = errors.New("server error")
)

// APIError is a failure reported by the server in the response envelope.
// errors.Is matches it against the sentinel for its status.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Code == "INVALID_CREDENTIALS":
		return ErrInvalidCredentials
	case e.Status == http.StatusUnauthorized, e.Status == http.StatusForbidden:
		return ErrAuth
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusBadRequest, e.Status == http.StatusUnprocessableEntity:
		return ErrValidation
	case e.Status >= http.StatusInternalServerError:
		return ErrServer
	}
	return nil
}

// FieldErrors returns the per-field messages of a validation failure.
func (e *APIError) FieldErrors() map[string]string {
	out := map[string]string{}
	for k, v := range e.Details {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// ValidationError is a client-side check that failed before any request was sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid field(s)", len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// transportError classifies a failure that happened before a response arrived.
// Caller cancellation is passed through unchanged.
func transportError(op string, reqCtx, callerCtx context.Context, err error) error {
	if errors.Is(callerCtx.Err(), context.Canceled) {
		return fmt.Errorf("%s: %w", op, context.Canceled)
	}
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrNetwork, err)
}
