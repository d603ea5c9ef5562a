package sessions

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jrsteele09/go-classroom-client/auth"
	"github.com/jrsteele09/go-classroom-client/internal/config"
	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
	"github.com/jrsteele09/go-classroom-client/storage"
	"github.com/jrsteele09/go-classroom-client/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	refreshKey            = "refresh"
	defaultRefreshTimeout = 30 * time.Second
	defaultLogoutTries    = 3
)

// Timer is the handle of a scheduled refresh
type Timer interface {
	Stop() bool
}

// Store holds the signed-in session: the in-memory access token and the user
// id, which is also persisted so it survives restarts. The token itself is
// never persisted; it is recovered through the refresh cookie.
//
// All session mutation goes through Store. It is safe for concurrent use.
type Store struct {
	authAPI auth.API
	repo    storage.Repo
	cfg     config.SessionConfig
	ssoURL  string

	mu          sync.RWMutex
	accessToken string
	userID      string
	epoch       uint64 // bumped on login and clear; a refresh started in an older epoch is discarded
	timer       Timer  // at most one scheduled refresh
	closed      bool
	observers   []func()

	refreshing atomic.Bool
	group      singleflight.Group

	nowFunc        func() time.Time
	afterFunc      func(time.Duration, func()) Timer
	refreshTimeout time.Duration
	logoutBackOff  func() backoff.BackOff
	logoutTries    uint
}

var _ oauth2.TokenSource = (*Store)(nil)

type StoreOption func(*Store)

func WithNowFunc(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowFunc = now
	}
}

// WithAfterFunc replaces time.AfterFunc for scheduling refreshes
func WithAfterFunc(afterFunc func(time.Duration, func()) Timer) StoreOption {
	return func(s *Store) {
		s.afterFunc = afterFunc
	}
}

func WithSSOURL(url string) StoreOption {
	return func(s *Store) {
		s.ssoURL = url
	}
}

// WithRefreshTimeout bounds a shared refresh call, which outlives the
// contexts of the callers waiting on it.
func WithRefreshTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		s.refreshTimeout = d
	}
}

func WithLogoutBackOff(newBackOff func() backoff.BackOff, tries uint) StoreOption {
	return func(s *Store) {
		s.logoutBackOff = newBackOff
		s.logoutTries = tries
	}
}

func NewStore(authAPI auth.API, repo storage.Repo, cfg config.SessionConfig, options ...StoreOption) *Store {
	s := &Store{
		authAPI:        authAPI,
		repo:           repo,
		cfg:            cfg,
		nowFunc:        time.Now,
		refreshTimeout: defaultRefreshTimeout,
		logoutTries:    defaultLogoutTries,
		logoutBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			return b
		},
	}
	s.afterFunc = func(d time.Duration, f func()) Timer {
		return time.AfterFunc(d, f)
	}

	for _, opt := range options {
		opt(s)
	}
	return s
}

// Login exchanges credentials for a session. On failure the session is left
// untouched and the error is an *AuthError.
func (s *Store) Login(ctx context.Context, account, password string) (*auth.TokenResponse, error) {
	resp, err := s.authAPI.Login(ctx, account, password)
	if err != nil {
		log.Debug().Err(err).Str("account", account).Msg("login failed")
		return nil, loginError(err)
	}
	if resp == nil || resp.Token() == "" {
		return nil, &AuthError{Kind: KindUnexpected, Message: unexpectedMessage, Err: auth.MissingAccessTokenErr}
	}

	userID := resp.User()
	if userID == "" {
		userID, _ = token.Subject(resp.Token())
	}
	if userID == "" {
		return nil, &AuthError{Kind: KindUnexpected, Message: unexpectedMessage, Err: auth.MissingUserIDErr}
	}

	s.mu.Lock()
	s.epoch++
	s.accessToken = resp.Token()
	s.userID = userID
	s.persistUserIDLocked()
	s.scheduleLocked()
	s.mu.Unlock()

	log.Info().Str("user_id", userID).Msg("logged in")
	return resp, nil
}

// Refresh exchanges the refresh cookie for a new access token. Concurrent
// callers share one network call and its result; a caller whose ctx ends
// stops waiting without cancelling the shared call. A failed refresh clears
// the session.
func (s *Store) Refresh(ctx context.Context) error {
	ch := s.group.DoChan(refreshKey, func() (any, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.refreshTimeout)
		defer cancel()
		return nil, s.refresh(sharedCtx)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("[Store.Refresh] %w", ctx.Err())
	}
}

func (s *Store) refresh(ctx context.Context) error {
	s.refreshing.Store(true)
	defer s.refreshing.Store(false)

	s.mu.RLock()
	epoch := s.epoch
	s.mu.RUnlock()

	resp, err := s.authAPI.Refresh(ctx)
	if err == nil && (resp == nil || resp.Token() == "") {
		err = auth.MissingAccessTokenErr
	}

	s.mu.Lock()
	if err != nil {
		var observers []func()
		if s.epoch == epoch {
			observers = s.clearLocked()
		}
		s.mu.Unlock()
		notify(observers)
		log.Debug().Err(err).Msg("token refresh failed, session cleared")
		return refreshError(err)
	}
	defer s.mu.Unlock()

	if s.epoch != epoch {
		// A login or logout happened while the call was in flight
		if s.accessToken == "" {
			return refreshError(apperrors.ErrLoginRequired)
		}
		return nil
	}

	s.accessToken = resp.Token()
	if s.userID == "" {
		s.userID = s.restoreUserIDLocked(resp)
		s.persistUserIDLocked()
	}
	s.scheduleLocked()
	log.Debug().Str("user_id", s.userID).Msg("access token refreshed")
	return nil
}

// Logout ends the server side session, retrying network failures a few
// times, then clears the local session regardless of the outcome.
func (s *Store) Logout(ctx context.Context) {
	accessToken := s.AccessToken()
	op := func() (struct{}, error) {
		err := s.authAPI.Logout(ctx, accessToken)
		if err != nil && !apperrors.Is(err, apperrors.ErrNetwork) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, op, backoff.WithBackOff(s.logoutBackOff()), backoff.WithMaxTries(s.logoutTries))
	if err != nil {
		log.Warn().Err(err).Msg("logout request failed, clearing local session anyway")
	}
	s.ClearAuth()
}

// ScheduleTokenRefresh replaces any pending refresh with one timed from the
// current token's expiry. Without a token it only cancels.
func (s *Store) ScheduleTokenRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduleLocked()
}

func (s *Store) scheduleLocked() {
	s.stopTimerLocked()
	if s.accessToken == "" || s.closed {
		return
	}

	delay := RefreshDelay(s.accessToken, s.nowFunc(), s.cfg)
	log.Debug().Dur("delay", delay).Msg("token refresh scheduled")
	s.timer = s.afterFunc(delay, func() {
		if err := s.Refresh(context.Background()); err != nil {
			log.Debug().Err(err).Msg("scheduled token refresh failed")
		}
	})
}

func (s *Store) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// RefreshDelay is how long to wait before refreshing rawToken: its expiry
// less the safety buffer, never below the minimum delay, or the default delay
// when the token has no readable expiry.
func RefreshDelay(rawToken string, now time.Time, cfg config.SessionConfig) time.Duration {
	exp, ok := token.ExpiryTime(rawToken)
	if !ok {
		return cfg.GetDefaultRefreshDelay()
	}
	delay := exp.Sub(now) - cfg.GetRefreshSafetyBuffer()
	return max(delay, cfg.GetMinRefreshDelay())
}

// InitializeAuth recovers a session at start up. When no token is held it
// restores the persisted user id and attempts one refresh; a failed refresh
// leaves the session cleared.
func (s *Store) InitializeAuth(ctx context.Context) error {
	s.mu.Lock()
	if s.accessToken != "" {
		s.mu.Unlock()
		return nil
	}
	if uid, ok := s.repo.Get(s.cfg.GetUserIDStorageKey()); ok && uid != "" {
		s.userID = uid
	}
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// HandleUnauthorized refreshes after a 401 and reports whether a new token
// is available.
func (s *Store) HandleUnauthorized(ctx context.Context) bool {
	return s.Refresh(ctx) == nil
}

// Token implements oauth2.TokenSource over the current access token
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	accessToken := s.accessToken
	s.mu.RUnlock()

	if accessToken == "" {
		return nil, apperrors.ErrNoAccessToken
	}
	tok := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	if exp, ok := token.ExpiryTime(accessToken); ok {
		tok.Expiry = exp
	}
	return tok, nil
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// IsLoggedIn holds when both a token and a user id are present
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken != "" && s.userID != ""
}

// RefreshPending reports whether a refresh call is in flight
func (s *Store) RefreshPending() bool {
	return s.refreshing.Load()
}

// SSOURL is where users sign in through single sign-on
func (s *Store) SSOURL() string {
	return s.ssoURL
}

// ClearAuth drops the token, the user id (in memory and persisted) and any
// scheduled refresh, then notifies OnCleared observers.
func (s *Store) ClearAuth() {
	s.mu.Lock()
	observers := s.clearLocked()
	s.mu.Unlock()
	notify(observers)
}

func (s *Store) clearLocked() []func() {
	s.epoch++
	s.accessToken = ""
	s.userID = ""
	s.stopTimerLocked()
	if err := s.repo.Remove(s.cfg.GetUserIDStorageKey()); err != nil {
		log.Warn().Err(err).Msg("failed to remove stored user id")
	}
	return slices.Clone(s.observers)
}

// OnCleared registers fn to run after every ClearAuth
func (s *Store) OnCleared(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Close cancels the scheduled refresh; no further refreshes are scheduled
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopTimerLocked()
}

func (s *Store) restoreUserIDLocked(resp *auth.TokenResponse) string {
	if uid, ok := s.repo.Get(s.cfg.GetUserIDStorageKey()); ok && uid != "" {
		return uid
	}
	if uid := resp.User(); uid != "" {
		return uid
	}
	uid, _ := token.Subject(resp.Token())
	return uid
}

func (s *Store) persistUserIDLocked() {
	if s.userID == "" {
		return
	}
	if err := s.repo.Set(s.cfg.GetUserIDStorageKey(), s.userID); err != nil {
		log.Warn().Err(err).Msg("failed to persist user id")
	}
}

func notify(observers []func()) {
	for _, fn := range observers {
		fn()
	}
}
