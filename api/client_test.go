package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-classroom-client/api"
	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeAuthenticator hands out a token and swaps it for next on refresh
type fakeAuthenticator struct {
	mu       sync.Mutex
	token    string
	next     string
	refresh  bool
	refreshN atomic.Int32
}

func (f *fakeAuthenticator) Token() (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token == "" {
		return nil, apperrors.ErrNoAccessToken
	}
	return &oauth2.Token{AccessToken: f.token, TokenType: "Bearer"}, nil
}

func (f *fakeAuthenticator) HandleUnauthorized(context.Context) bool {
	f.refreshN.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.refresh {
		return false
	}
	f.token = f.next
	return true
}

func newClient(t *testing.T, url string) *api.Client {
	t.Helper()
	cfg := api.DefaultConfig()
	cfg.BaseURL = url
	c, err := api.New(cfg)
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := api.New(api.Config{})
	require.Error(t, err)

	_, err = api.New(api.Config{BaseURL: "ftp://example.com"})
	require.Error(t, err)

	c, err := api.New(api.Config{BaseURL: "http://localhost:3000"})
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3000", c.BaseURL())
}

func TestDo_EnvelopeUnwrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/profile", r.URL.Path)
		require.Equal(t, "7", r.URL.Query().Get("uid"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"name":"Alice","user_id":7}}`))
	}))
	defer srv.Close()

	var out struct {
		Name   string `json:"name"`
		UserID api.ID `json:"user_id"`
	}
	err := newClient(t, srv.URL).Get(context.Background(), "/users/profile", map[string][]string{"uid": {"7"}}, &out)
	require.NoError(t, err)
	require.Equal(t, "Alice", out.Name)
	require.Equal(t, api.ID("7"), out.UserID)
}

func TestDo_PlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"classroom_id":"C101"},{"classroom_id":"C102"}]`))
	}))
	defer srv.Close()

	var out []struct {
		ID string `json:"classroom_id"`
	}
	require.NoError(t, newClient(t, srv.URL).Get(context.Background(), "/classrooms/", nil, &out))
	require.Len(t, out, 2)
	require.Equal(t, "C102", out[1].ID)
}

func TestDo_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{name: "envelope failure", status: http.StatusOK, body: `{"success":false,"message":"classroom is full"}`, message: "classroom is full"},
		{name: "not found", status: http.StatusNotFound, body: `{"message":"no such booking"}`, sentinel: apperrors.ErrNotFound, message: "no such booking"},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":"admins only"}`, sentinel: apperrors.ErrForbidden, message: "admins only"},
		{name: "bad request", status: http.StatusBadRequest, body: `missing reason`, sentinel: apperrors.ErrInvalidRequest, message: "missing reason"},
		{name: "server error", status: http.StatusInternalServerError, body: ``, sentinel: apperrors.ErrInternal},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, sentinel: apperrors.ErrLoginRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := newClient(t, srv.URL).Post(context.Background(), "/bookings/", map[string]string{"a": "b"}, nil)
			require.Error(t, err)

			var apiErr *api.Error
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.status, apiErr.StatusCode)
			require.Equal(t, tt.message, apiErr.Message)
			require.Equal(t, http.MethodPost, apiErr.Method)
			require.Equal(t, "/bookings/", apiErr.Path)
			if tt.sentinel != nil {
				require.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestDo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := newClient(t, url).Get(context.Background(), "/classrooms/", nil, nil)
	require.ErrorIs(t, err, apperrors.ErrNetwork)
	require.Zero(t, api.StatusCode(err))
}

func TestDo_WithBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer T1", r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get(api.RequestIDHeader))
	}))
	defer srv.Close()

	err := newClient(t, srv.URL).Post(context.Background(), api.LogoutPath, struct{}{}, nil, api.WithBearer("T1"))
	require.NoError(t, err)
}

func TestID_Unmarshal(t *testing.T) {
	var ids []api.ID
	require.NoError(t, json.Unmarshal([]byte(`[1, "2", null, 30]`), &ids))
	require.Equal(t, []api.ID{"1", "2", "", "30"}, ids)

	n, ok := ids[3].Int()
	require.True(t, ok)
	require.Equal(t, int64(30), n)

	var bad api.ID
	require.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestAuthTransport_RefreshAndRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("Authorization") != "Bearer T2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{"event_name":"rehearsal"}`, string(body))
		_, _ = w.Write([]byte(`{"success":true,"data":{"message":"created","request_id":12}}`))
	}))
	defer srv.Close()

	auth := &fakeAuthenticator{token: "T1", next: "T2", refresh: true}
	client := newClient(t, srv.URL).WithAuth(auth)

	var out api.Message
	err := client.Post(context.Background(), "/bookings/", map[string]string{"event_name": "rehearsal"}, &out)
	require.NoError(t, err)
	require.Equal(t, "created", out.Message)
	require.Equal(t, api.ID("12"), out.RequestID)
	require.Equal(t, int32(1), auth.refreshN.Load())
	require.Equal(t, int32(2), hits.Load())
}

func TestAuthTransport_SingleRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	auth := &fakeAuthenticator{token: "T1", next: "T2", refresh: true}
	err := newClient(t, srv.URL).WithAuth(auth).Get(context.Background(), "/bookings/", nil, nil)
	require.True(t, api.IsUnauthorized(err))
	require.Equal(t, int32(1), auth.refreshN.Load())
	require.Equal(t, int32(2), hits.Load())
}

func TestAuthTransport_RefreshFailurePropagates401(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer srv.Close()

	auth := &fakeAuthenticator{token: "T1"}
	err := newClient(t, srv.URL).WithAuth(auth).Get(context.Background(), "/bookings/", nil, nil)
	require.True(t, api.IsUnauthorized(err))
	require.Contains(t, err.Error(), "token expired")
	require.Equal(t, int32(1), auth.refreshN.Load())
	require.Equal(t, int32(1), hits.Load())
}

func TestAuthTransport_RefreshPathExempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	auth := &fakeAuthenticator{token: "T1", next: "T2", refresh: true}
	err := newClient(t, srv.URL).WithAuth(auth).Post(context.Background(), api.RefreshPath, struct{}{}, nil)
	require.True(t, api.IsUnauthorized(err))
	require.Zero(t, auth.refreshN.Load())
}

func TestAuthTransport_NoTokenPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	var out []any
	err := newClient(t, srv.URL).WithAuth(&fakeAuthenticator{}).Get(context.Background(), "/announcements/", nil, &out)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestCachingTransport(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Cache-Control", "max-age=60")
		_, _ = w.Write([]byte(`[{"announcement_id":1}]`))
	}))
	defer srv.Close()

	cfg := api.DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.CacheDir = t.TempDir()
	c, err := api.New(cfg)
	require.NoError(t, err)

	for range 3 {
		var out []map[string]any
		require.NoError(t, c.Get(context.Background(), "/announcements/", nil, &out))
		require.Len(t, out, 1)
	}
	require.Equal(t, int32(1), hits.Load())
}

func TestCachingTransport_SkipsAuthorizedRequests(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("Authorization") != "Bearer T1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"login required"}`))
			return
		}
		w.Header().Set("Cache-Control", "private, max-age=300")
		_, _ = w.Write([]byte(`[{"id":1,"event_name":"alice secret"}]`))
	}))
	defer srv.Close()

	cfg := api.DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Cache = true
	base, err := api.New(cfg)
	require.NoError(t, err)
	authn := &fakeAuthenticator{token: "T1"}
	c := base.WithAuth(authn)

	var out []map[string]any
	require.NoError(t, c.Get(context.Background(), "/admin/bookings", nil, &out))
	require.Len(t, out, 1)

	authn.mu.Lock()
	authn.token = ""
	authn.mu.Unlock()

	out = nil
	err = c.Get(context.Background(), "/admin/bookings", nil, &out)
	require.ErrorIs(t, err, apperrors.ErrLoginRequired)
	require.Empty(t, out)
	require.Equal(t, int32(2), hits.Load())
}
