package api

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Authenticator supplies the bearer token for outgoing requests and recovers
// from an unauthorized response, typically by refreshing the token.
type Authenticator interface {
	oauth2.TokenSource
	// HandleUnauthorized reports whether a fresh token is now available
	HandleUnauthorized(ctx context.Context) bool
}

type retriedKey struct{}

func withRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey{}, true)
}

func isRetried(ctx context.Context) bool {
	retried, _ := ctx.Value(retriedKey{}).(bool)
	return retried
}

// AuthTransport attaches the current token to each request and, on a 401,
// refreshes once and replays the request.
type AuthTransport struct {
	next http.RoundTripper
	auth Authenticator
}

// NewAuthTransport wraps next with the authenticator's hooks
func NewAuthTransport(next http.RoundTripper, auth Authenticator) *AuthTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &AuthTransport{next: next, auth: auth}
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(t.authorize(req))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || !t.eligible(req) {
		return resp, nil
	}

	ctx := withRetried(req.Context())
	retry := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return resp, nil
		}
		retry.Body = body
	}

	log.Debug().Str("path", req.URL.Path).Msg("unauthorized response, attempting token refresh")
	if !t.auth.HandleUnauthorized(req.Context()) {
		if retry.Body != nil {
			retry.Body.Close()
		}
		return resp, nil
	}

	drain(resp)
	return t.next.RoundTrip(t.authorize(retry))
}

// authorize returns a copy of req carrying the current bearer token, or req
// itself when there is no token.
func (t *AuthTransport) authorize(req *http.Request) *http.Request {
	tok, err := t.auth.Token()
	if err != nil || tok == nil || tok.AccessToken == "" {
		return req
	}
	authorized := req.Clone(req.Context())
	tok.SetAuthHeader(authorized)
	return authorized
}

// eligible reports whether a 401 on req may trigger a refresh and retry
func (t *AuthTransport) eligible(req *http.Request) bool {
	if strings.HasSuffix(strings.TrimSuffix(req.URL.Path, "/"), RefreshPath) {
		return false
	}
	if isRetried(req.Context()) {
		return false
	}
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	resp.Body.Close()
}
