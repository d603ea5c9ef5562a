package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader correlates client log lines with server logs
const RequestIDHeader = "X-Request-ID"

type loggingTransport struct {
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := req.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	event := log.Debug().
		Str("request_id", id).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Dur("duration", time.Since(start))
	if err != nil {
		event.Err(err).Msg("api request failed")
		return nil, err
	}
	event.Int("status", resp.StatusCode).Msg("api request")
	return resp, nil
}

// NewCachingTransport caches GET responses according to their cache headers.
// An empty dir keeps the cache in memory. Requests carrying credentials skip
// the cache entirely.
func NewCachingTransport(dir string, next http.RoundTripper) http.RoundTripper {
	var cache httpcache.Cache
	if dir == "" {
		cache = httpcache.NewMemoryCache()
	} else {
		cache = diskcache.New(dir)
	}
	t := httpcache.NewTransport(cache)
	t.Transport = next
	t.MarkCachedResponses = true
	return &publicCacheTransport{cached: t, next: next}
}

// publicCacheTransport sends anonymous requests through the cache and
// everything else straight to next
type publicCacheTransport struct {
	cached http.RoundTripper
	next   http.RoundTripper
}

func (t *publicCacheTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") != "" || req.Header.Get("Cookie") != "" {
		return t.next.RoundTrip(req)
	}
	return t.cached.RoundTrip(req)
}

// FromCache reports whether resp was served by the caching transport
func FromCache(resp *http.Response) bool {
	return resp.Header.Get(httpcache.XFromCache) == "1"
}
