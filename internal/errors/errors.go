package errors

import (
	"errors"
	"fmt"
)

// Common error types for the classroom booking client
var (
	// Transport errors
	ErrNetwork = errors.New("unable to reach the server")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginRequired      = errors.New("login required")

	// Token errors
	ErrNoAccessToken = errors.New("no access token")
	ErrRefreshFailed = errors.New("token refresh failed")

	// Request errors
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")

	// General errors
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
