// Package errors turns non-2xx API responses into typed errors for HTTP clients.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MinErrorStatusCode is the first status code treated as a failure.
const MinErrorStatusCode = 400

// maxErrorBody bounds how much of an error body is kept.
const maxErrorBody = 64 << 10

// HTTPError is a failed API response.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error (%s): %s", e.Status, e.Message)
	}
	return "HTTP error: " + e.Status
}

// ParseHTTPError returns nil for successful responses. Otherwise it reads the
// body and extracts the message from a {"message": ...} or {"error": ...} body,
// falling back to the raw text.
func ParseHTTPError(resp *http.Response) error {
	if resp.StatusCode < MinErrorStatusCode {
		return nil
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    fmt.Sprintf("failed to read error response body: %v", err),
		}
	}

	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(bodyBytes),
		Message:    strings.TrimSpace(string(bodyBytes)),
	}

	var jsonErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(bodyBytes, &jsonErr) == nil {
		switch {
		case jsonErr.Message != "":
			httpErr.Message = jsonErr.Message
		case jsonErr.Error != "":
			httpErr.Message = jsonErr.Error
		}
	}

	return httpErr
}

// StatusCode extracts the status code when err wraps an HTTPError.
func StatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}
