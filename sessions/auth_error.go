package sessions

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-classroom-client/api"
	"github.com/jrsteele09/go-classroom-client/auth"
	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
)

// ErrorKind classifies a failed session operation
type ErrorKind string

const (
	KindNetwork     ErrorKind = "network"
	KindCredentials ErrorKind = "credentials"
	KindRefresh     ErrorKind = "refresh"
	KindUnexpected  ErrorKind = "unexpected"
)

const (
	networkMessage      = "unable to reach the server, check that the backend is running"
	credentialsMessage  = "wrong account or password"
	loginFailedMessage  = "login failed"
	unexpectedMessage   = "an unexpected error occurred"
	sessionEndedMessage = "session expired, please log in again"
)

// AuthError is returned by Login and Refresh. Message is safe to show to the
// user; Err keeps the underlying cause.
type AuthError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a session error, or "" for other errors
func KindOf(err error) ErrorKind {
	var authErr *AuthError
	if apperrors.As(err, &authErr) {
		return authErr.Kind
	}
	return ""
}

func loginError(err error) *AuthError {
	if apperrors.Is(err, apperrors.ErrNetwork) {
		return &AuthError{Kind: KindNetwork, Message: networkMessage, Err: err}
	}
	if apperrors.Is(err, auth.MissingAccountErr) || apperrors.Is(err, auth.MissingPasswordErr) {
		return &AuthError{Kind: KindCredentials, Message: credentialsMessage, Err: errors.Join(apperrors.ErrInvalidCredentials, err)}
	}
	if apperrors.Is(err, context.Canceled) || apperrors.Is(err, context.DeadlineExceeded) {
		return &AuthError{Kind: KindUnexpected, Message: unexpectedMessage, Err: err}
	}

	var apiErr *api.Error
	if !apperrors.As(err, &apiErr) {
		return &AuthError{Kind: KindUnexpected, Message: unexpectedMessage, Err: err}
	}

	switch {
	case apiErr.StatusCode == http.StatusOK || apiErr.StatusCode == http.StatusUnauthorized:
		return &AuthError{Kind: KindCredentials, Message: orDefault(apiErr.Message, credentialsMessage), Err: errors.Join(apperrors.ErrInvalidCredentials, err)}
	case apiErr.StatusCode < http.StatusInternalServerError:
		return &AuthError{Kind: KindCredentials, Message: orDefault(apiErr.Message, loginFailedMessage), Err: errors.Join(apperrors.ErrInvalidCredentials, err)}
	default:
		return &AuthError{Kind: KindUnexpected, Message: orDefault(apiErr.Message, loginFailedMessage), Err: err}
	}
}

func refreshError(err error) *AuthError {
	return &AuthError{Kind: KindRefresh, Message: sessionEndedMessage, Err: errors.Join(apperrors.ErrRefreshFailed, err)}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
