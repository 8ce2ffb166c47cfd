// Package api provides error types for platform API responses.
package api

import (
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
)

// StatusError is returned for non-2xx API responses. It carries the response
// body (truncated) as diagnostic text.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// newStatusError builds a StatusError from a response, consuming up to
// errorBodyLimit bytes of the body. The caller closes the body.
func newStatusError(method, path string, resp *nethttp.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	return &StatusError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// IsNotFound reports whether an error indicates a missing resource.
// Detects both a 404 StatusError and common "not found" message patterns
// from wrapped errors.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == nethttp.StatusNotFound
	}

	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// IsUnauthorized reports whether an error indicates a rejected token.
func IsUnauthorized(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == nethttp.StatusUnauthorized ||
			statusErr.StatusCode == nethttp.StatusForbidden
	}
	return false
}
