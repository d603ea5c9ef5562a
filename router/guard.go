package router

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Session is what the guard needs from the session store
type Session interface {
	InitializeAuth(ctx context.Context) error
	IsLoggedIn() bool
}

// Decision is the outcome of a navigation check. When Allow is false the
// caller should navigate to Redirect instead, unless Err is set.
type Decision struct {
	Allow    bool
	Redirect string
	Err      error
}

// Guard gates navigation on session state. The session is initialized once,
// before the first navigation; concurrent navigations wait on the same
// initialization.
type Guard struct {
	session     Session
	public      map[string]bool
	initialized atomic.Bool
	group       singleflight.Group
}

type GuardOption func(*Guard)

// WithPublicRoutes replaces the default public routes
func WithPublicRoutes(paths ...string) GuardOption {
	return func(g *Guard) {
		g.public = make(map[string]bool, len(paths))
		for _, p := range paths {
			g.public[normalize(p)] = true
		}
	}
}

func NewGuard(session Session, options ...GuardOption) *Guard {
	g := &Guard{session: session}
	WithPublicRoutes(PublicRoutes...)(g)
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Initialize recovers the session once. A failed recovery leaves the session
// signed out and is not retried; later calls return immediately.
func (g *Guard) Initialize(ctx context.Context) error {
	if g.initialized.Load() {
		return nil
	}

	ch := g.group.DoChan("initialize", func() (any, error) {
		if g.initialized.Load() {
			return nil, nil
		}
		err := g.session.InitializeAuth(context.WithoutCancel(ctx))
		g.initialized.Store(true)
		return nil, err
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("[Guard.Initialize] %w", ctx.Err())
	}
}

// Initialized reports whether the session has been initialized
func (g *Guard) Initialized() bool {
	return g.initialized.Load()
}

// BeforeEach decides whether navigation to `to` (a path with optional query)
// may proceed.
func (g *Guard) BeforeEach(ctx context.Context, to string) Decision {
	if err := g.Initialize(ctx); err != nil {
		if ctx.Err() != nil {
			return Decision{Err: err}
		}
		log.Debug().Err(err).Msg("session not restored")
	}

	if g.IsPublic(to) || g.session.IsLoggedIn() {
		return Decision{Allow: true}
	}
	return Decision{Redirect: LoginRedirect(to)}
}

// IsPublic reports whether the path of `to` needs no session
func (g *Guard) IsPublic(to string) bool {
	return g.public[normalize(to)]
}

// LoginRedirect is the login path carrying `to` for the post-login redirect
func LoginRedirect(to string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(to), "%2F", "/")
	return RouteLogin + "?" + RedirectParam + "=" + escaped
}

// RedirectTarget extracts the post-login destination from a login path,
// defaulting to the home route. Only local paths are honoured.
func RedirectTarget(loginPath string) string {
	u, err := url.Parse(loginPath)
	if err != nil {
		return RouteHome
	}
	target := u.Query().Get(RedirectParam)
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return RouteHome
	}
	return target
}

func normalize(to string) string {
	path := to
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		return RouteHome
	}
	return path
}
