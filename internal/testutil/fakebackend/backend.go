// Package fakebackend is an in-process booking API for integration tests. It
// issues signed access tokens, keeps the refresh token in an http-only cookie
// and rejects expired or revoked tokens with 401.
package fakebackend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-classroom-client/internal/testutil"
)

const RefreshCookie = "refresh_token"

// User is an account the backend accepts
type User struct {
	ID       string
	Account  string
	Password string
	Name     string
	Role     string
}

type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]User   // account -> user
	refresh  map[string]string // refresh token -> user id
	revoked  map[string]bool   // access tokens rejected before expiry
	issued   []string
	tokenTTL time.Duration

	RefreshCalls atomic.Int32
	LogoutCalls  atomic.Int32
}

func New(t testing.TB, users ...User) *Backend {
	t.Helper()
	b := &Backend{
		users:    make(map[string]User),
		refresh:  make(map[string]string),
		revoked:  make(map[string]bool),
		tokenTTL: 15 * time.Minute,
	}
	for _, u := range users {
		b.users[u.Account] = u
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", b.login)
	mux.HandleFunc("POST /api/refresh", b.refreshToken)
	mux.HandleFunc("POST /api/logout", b.logout)
	mux.HandleFunc("GET /users/profile", b.authorized(b.profile))
	mux.HandleFunc("GET /bookings/", b.authorized(b.bookings))
	mux.HandleFunc("GET /announcements/", b.announcements)

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

// RevokeAccessTokens makes every access token issued so far fail with 401
func (b *Backend) RevokeAccessTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, tok := range b.issued {
		b.revoked[tok] = true
	}
}

// RevokeRefreshTokens ends every server side session
func (b *Backend) RevokeRefreshTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.refresh)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Account  string `json:"account"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid body"})
		return
	}

	b.mu.Lock()
	u, ok := b.users[creds.Account]
	b.mu.Unlock()
	if !ok || u.Password != creds.Password {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
		return
	}

	access, err := b.issue(u.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": err.Error()})
		return
	}
	b.setRefreshCookie(w, u.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"accessToken": access, "uid": u.ID, "name": u.Name, "role": u.Role},
	})
}

func (b *Backend) refreshToken(w http.ResponseWriter, r *http.Request) {
	b.RefreshCalls.Add(1)
	c, err := r.Cookie(RefreshCookie)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "missing refresh token"})
		return
	}

	b.mu.Lock()
	uid, ok := b.refresh[c.Value]
	delete(b.refresh, c.Value)
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "invalid refresh token"})
		return
	}

	access, err := b.issue(uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": err.Error()})
		return
	}
	b.setRefreshCookie(w, uid)
	writeJSON(w, http.StatusOK, map[string]any{"accessToken": access})
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request) {
	b.LogoutCalls.Add(1)
	if c, err := r.Cookie(RefreshCookie); err == nil {
		b.mu.Lock()
		delete(b.refresh, c.Value)
		b.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: RefreshCookie, Path: "/api", MaxAge: -1, HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "logged out"})
}

func (b *Backend) profile(w http.ResponseWriter, r *http.Request, uid string) {
	b.mu.Lock()
	var found *User
	for _, u := range b.users {
		if u.ID == r.URL.Query().Get("uid") {
			found = &u
			break
		}
	}
	b.mu.Unlock()
	if found == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "no such user"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"user_id": found.ID, "account": found.Account, "name": found.Name, "role": found.Role},
	})
}

func (b *Backend) bookings(w http.ResponseWriter, r *http.Request, uid string) {
	writeJSON(w, http.StatusOK, []map[string]any{
		{"request_id": 1, "user_id": uid, "classroom_id": "C101", "status": "pending", "event_name": "rehearsal"},
	})
}

func (b *Backend) announcements(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]any{
		{"announcement_id": 1, "title": "welcome", "content": "hello", "created_at": "2025-11-29T16:27:57.000Z"},
	})
}

// authorized admits requests carrying a valid, unrevoked bearer token
func (b *Backend) authorized(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "missing token"})
			return
		}
		b.mu.Lock()
		revoked := b.revoked[raw]
		b.mu.Unlock()

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return testutil.SigningKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
		if err != nil || revoked {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "token expired"})
			return
		}
		sub, _ := claims.GetSubject()
		next(w, r, sub)
	}
}

func (b *Backend) issue(uid string) (string, error) {
	tok, err := testutil.SignToken(uid, time.Now().Add(b.tokenTTL))
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	b.issued = append(b.issued, tok)
	b.mu.Unlock()
	return tok, nil
}

func (b *Backend) setRefreshCookie(w http.ResponseWriter, uid string) {
	value := uuid.NewString()
	b.mu.Lock()
	b.refresh[value] = uid
	b.mu.Unlock()
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    value,
		Path:     "/api",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
