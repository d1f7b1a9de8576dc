package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuth marks a failed token exchange.
	ErrAuth = errors.New("auth error")
	// ErrTransport marks a request that never produced an HTTP response.
	ErrTransport = errors.New("transport error")
	// ErrStatus marks an HTTP response with an unexpected status code.
	ErrStatus = errors.New("unexpected status")
	// ErrValidation marks input that failed a local presence check.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks missing or inconsistent configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrParse marks a document that could not be parsed at all.
	ErrParse = errors.New("parse error")
	// ErrLocked marks instance-lock contention at startup.
	ErrLocked = errors.New("already locked")
)

// Wrap builds an error message that includes service context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, service, operation, message string, err error) error {
	detail := buildDetail(service, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether a workflow stage should attempt the call again.
// Auth and remote failures are worth one more attempt with a fresh token;
// local validation and configuration problems are not.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration), errors.Is(err, ErrParse):
		return false
	default:
		return true
	}
}

func buildDetail(service, operation, message string) string {
	parts := make([]string, 0, 3)
	if service = strings.TrimSpace(service); service != "" {
		parts = append(parts, service)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
