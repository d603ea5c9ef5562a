package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
)

// Error is a failed API call: an HTTP error status, or a 2xx envelope with
// success set to false.
type Error struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *Error) Error() string {
	msg := e.Message
	switch {
	case msg != "":
	case e.StatusCode == http.StatusOK:
		msg = "request failed"
	default:
		msg = http.StatusText(e.StatusCode)
	}
	if e.Method == "" {
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("[%s %s] api error (%d): %s", e.Method, e.Path, e.StatusCode, msg)
}

// Unwrap maps the status onto the client's sentinel errors
func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return apperrors.ErrLoginRequired
	case http.StatusForbidden:
		return apperrors.ErrForbidden
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return apperrors.ErrInvalidRequest
	}
	if e.StatusCode >= http.StatusInternalServerError {
		return apperrors.ErrInternal
	}
	return nil
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the API
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

const maxMessageLen = 200

func newError(status int, method, path string, body []byte) *Error {
	return &Error{
		StatusCode: status,
		Method:     method,
		Path:       path,
		Message:    errorMessage(body),
	}
}

// errorMessage pulls a human readable message out of an error body
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
		return ""
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxMessageLen {
		msg = msg[:maxMessageLen]
	}
	return msg
}
