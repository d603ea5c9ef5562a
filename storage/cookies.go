package storage

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const cookiesKey = "cookies"

var _ http.CookieJar = (*CookieJar)(nil)

// storedCookie is the persisted form of a Set-Cookie received from the API
type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

func (c storedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

// CookieJar is an http.CookieJar whose cookies outlive the process. It plays
// the role of the browser cookie store, which is where the API keeps the
// long-lived refresh cookie.
type CookieJar struct {
	jar     *cookiejar.Jar
	repo    Repo
	mu      sync.Mutex
	origins map[string][]storedCookie // origin -> cookies
	nowFunc func() time.Time
}

// NewCookieJar creates a jar backed by repo and replays the cookies it holds
func NewCookieJar(repo Repo) (*CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("[NewCookieJar] failed to create cookie jar: %w", err)
	}

	j := &CookieJar{
		jar:     jar,
		repo:    repo,
		origins: make(map[string][]storedCookie),
		nowFunc: time.Now,
	}
	j.restore()
	return j, nil
}

func (j *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

func (j *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)

	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.nowFunc()
	key := origin(u)
	stored := j.origins[key]
	for _, c := range cookies {
		path := c.Path
		if path == "" {
			path = defaultPath(u.Path)
		}
		stored = removeCookie(stored, c.Name, path)
		if c.MaxAge < 0 {
			continue
		}
		sc := storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if c.MaxAge > 0 {
			sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if sc.expired(now) {
			continue
		}
		stored = append(stored, sc)
	}

	if len(stored) == 0 {
		delete(j.origins, key)
	} else {
		j.origins[key] = stored
	}
	j.persist()
}

func (j *CookieJar) restore() {
	raw, ok := j.repo.Get(cookiesKey)
	if !ok {
		return
	}

	var origins map[string][]storedCookie
	if err := json.Unmarshal([]byte(raw), &origins); err != nil {
		log.Warn().Err(err).Msg("ignoring unreadable persisted cookies")
		return
	}

	now := j.nowFunc()
	for key, stored := range origins {
		u, err := url.Parse(key)
		if err != nil {
			continue
		}

		live := make([]storedCookie, 0, len(stored))
		cookies := make([]*http.Cookie, 0, len(stored))
		for _, sc := range stored {
			if sc.expired(now) {
				continue
			}
			live = append(live, sc)
			cookies = append(cookies, &http.Cookie{
				Name:     sc.Name,
				Value:    sc.Value,
				Path:     sc.Path,
				Domain:   sc.Domain,
				Expires:  sc.Expires,
				Secure:   sc.Secure,
				HttpOnly: sc.HttpOnly,
			})
		}
		if len(live) == 0 {
			continue
		}
		j.origins[key] = live
		j.jar.SetCookies(u, cookies)
	}
}

func (j *CookieJar) persist() {
	if len(j.origins) == 0 {
		if err := j.repo.Remove(cookiesKey); err != nil {
			log.Warn().Err(err).Msg("failed to remove persisted cookies")
		}
		return
	}

	data, err := json.Marshal(j.origins)
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal cookies")
		return
	}
	if err := j.repo.Set(cookiesKey, string(data)); err != nil {
		log.Warn().Err(err).Msg("failed to persist cookies")
	}
}

func origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// defaultPath follows RFC 6265 section 5.1.4
func defaultPath(path string) string {
	if path == "" || path[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(path, "/")
	if i == 0 {
		return "/"
	}
	return path[:i]
}

func removeCookie(cookies []storedCookie, name, path string) []storedCookie {
	out := cookies[:0]
	for _, c := range cookies {
		if c.Name == name && c.Path == path {
			continue
		}
		out = append(out, c)
	}
	return out
}
