package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
)

// Auth endpoints, shared by the auth module and the refresh exemption in the interceptor
const (
	LoginPath   = "/api/login"
	RefreshPath = "/api/refresh"
	LogoutPath  = "/api/logout"
)

const maxResponseBytes = 4 << 20

// Config holds common client configuration
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	CacheDir  string            // disk cache for cacheable GET responses
	Cache     bool              // in-memory cache when CacheDir is empty
	Jar       http.CookieJar    // carries the refresh cookie between calls
	Transport http.RoundTripper // defaults to http.DefaultTransport
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:3000",
		Timeout: 30 * time.Second,
	}
}

// Client issues JSON requests against the booking API. A plain Client sends
// requests as given; WithAuth returns a copy that attaches and refreshes the
// bearer token.
type Client struct {
	baseURL    *url.URL
	base       http.RoundTripper
	jar        http.CookieJar
	timeout    time.Duration
	httpClient *http.Client
}

// RequestOption adjusts a single outgoing request
type RequestOption func(*http.Request)

// WithBearer sets an explicit bearer credential on the request
func WithBearer(accessToken string) RequestOption {
	return func(r *http.Request) {
		if accessToken != "" {
			r.Header.Set("Authorization", "Bearer "+accessToken)
		}
	}
}

// WithHeader sets an arbitrary request header
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// New creates a client for cfg.BaseURL
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("[api New] base URL is required")
	}
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("[api New] invalid base URL: %w", err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("[api New] base URL must be http or https, got %q", cfg.BaseURL)
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	transport = &loggingTransport{next: transport}
	if cfg.CacheDir != "" || cfg.Cache {
		transport = NewCachingTransport(cfg.CacheDir, transport)
	}

	c := &Client{
		baseURL: baseURL,
		base:    transport,
		jar:     cfg.Jar,
		timeout: cfg.Timeout,
	}
	c.httpClient = &http.Client{Transport: transport, Jar: cfg.Jar, Timeout: cfg.Timeout}
	return c, nil
}

// WithAuth returns a client sharing this client's transport and cookies whose
// requests carry the authenticator's token and retry once after a refresh.
func (c *Client) WithAuth(authenticator Authenticator) *Client {
	clone := *c
	clone.httpClient = &http.Client{
		Transport: NewAuthTransport(c.base, authenticator),
		Jar:       c.jar,
		Timeout:   c.timeout,
	}
	return &clone
}

// BaseURL returns the API base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out, opts...)
}

// Do sends a request and decodes the response into out (which may be nil).
// Transport failures wrap ErrNetwork; HTTP failures are returned as *Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any, opts ...RequestOption) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("[%s %s] %w", method, path, ctxErr)
		}
		return fmt.Errorf("[%s %s] %w: %w", method, path, apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("[%s %s] %w: %w", method, path, apperrors.ErrNetwork, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return newError(resp.StatusCode, method, path, data)
	}
	if err := decode(data, out); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			apiErr.Method, apiErr.Path = method, path
			return apiErr
		}
		return fmt.Errorf("[%s %s] failed to decode response: %w", method, path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("[%s %s] failed to encode request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("[%s %s] failed to create request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
