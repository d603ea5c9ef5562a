package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jrsteele09/go-classroom-client/api"
	"github.com/stretchr/testify/require"
)

// Request is what a RecordingServer saw
type Request struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   string
	Header http.Header
}

// RecordingServer answers every request with a fixed response and records it
type RecordingServer struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	requests []Request
}

func NewRecordingServer(t testing.TB, status int, body string) *RecordingServer {
	t.Helper()
	s := &RecordingServer{status: status, body: body}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *RecordingServer) handle(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Body:   string(data),
		Header: r.Header.Clone(),
	})
	status, body := s.status, s.body
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Respond changes the response for subsequent requests
func (s *RecordingServer) Respond(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status, s.body = status, body
}

func (s *RecordingServer) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Last returns the most recent request; it fails the test if there was none
func (s *RecordingServer) Last(t testing.TB) Request {
	t.Helper()
	reqs := s.Requests()
	require.NotEmpty(t, reqs, "no request recorded")
	return reqs[len(reqs)-1]
}

// APIClient returns a client for the server
func (s *RecordingServer) APIClient(t testing.TB) *api.Client {
	t.Helper()
	c, err := api.New(api.Config{BaseURL: s.URL})
	require.NoError(t, err)
	return c
}
