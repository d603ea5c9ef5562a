// Package app builds the client object graph from configuration.
package app

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-classroom-client/admin"
	"github.com/jrsteele09/go-classroom-client/announcements"
	"github.com/jrsteele09/go-classroom-client/api"
	"github.com/jrsteele09/go-classroom-client/auth"
	"github.com/jrsteele09/go-classroom-client/bookings"
	"github.com/jrsteele09/go-classroom-client/classrooms"
	"github.com/jrsteele09/go-classroom-client/internal/config"
	"github.com/jrsteele09/go-classroom-client/router"
	"github.com/jrsteele09/go-classroom-client/schedule"
	"github.com/jrsteele09/go-classroom-client/sessions"
	"github.com/jrsteele09/go-classroom-client/storage"
	"github.com/jrsteele09/go-classroom-client/toast"
	"github.com/jrsteele09/go-classroom-client/users"
)

// App owns every long lived component of the client. Components reach each
// other only through the references wired here.
type App struct {
	Config config.Config
	Repo   storage.Repo
	Jar    *storage.CookieJar

	Client  *api.Client // carries the session token and retries after refresh
	Auth    *auth.Service
	Session *sessions.Store

	Users         *users.Service
	Profile       *users.ProfileStore
	Bookings      *bookings.Service
	Classrooms    *classrooms.Service
	Schedule      *schedule.Service
	Announcements *announcements.Service
	Admin         *admin.Service

	Toasts *toast.Store
	Guard  *router.Guard
}

type options struct {
	repo           storage.Repo
	transport      http.RoundTripper
	sessionOptions []sessions.StoreOption
	toastOptions   []toast.StoreOption
}

type Option func(*options)

// WithRepo replaces the state file under the configured state directory
func WithRepo(repo storage.Repo) Option {
	return func(o *options) {
		o.repo = repo
	}
}

func WithTransport(transport http.RoundTripper) Option {
	return func(o *options) {
		o.transport = transport
	}
}

func WithSessionOptions(opts ...sessions.StoreOption) Option {
	return func(o *options) {
		o.sessionOptions = append(o.sessionOptions, opts...)
	}
}

func WithToastOptions(opts ...toast.StoreOption) Option {
	return func(o *options) {
		o.toastOptions = append(o.toastOptions, opts...)
	}
}

func New(cfg config.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	repo := o.repo
	if repo == nil {
		fileRepo, err := storage.NewFileRepo(cfg.GetStateDir())
		if err != nil {
			return nil, fmt.Errorf("[app.New] %w", err)
		}
		repo = fileRepo
	}

	jar, err := storage.NewCookieJar(repo)
	if err != nil {
		return nil, fmt.Errorf("[app.New] %w", err)
	}

	base, err := api.New(api.Config{
		BaseURL:   cfg.GetAPIURL(),
		Timeout:   cfg.GetHTTPTimeout(),
		CacheDir:  cfg.GetCacheDir(),
		Jar:       jar,
		Transport: o.transport,
	})
	if err != nil {
		return nil, fmt.Errorf("[app.New] %w", err)
	}

	authService := auth.NewService(base)
	sessionOptions := append([]sessions.StoreOption{sessions.WithSSOURL(cfg.GetSSOURL())}, o.sessionOptions...)
	session := sessions.NewStore(authService, repo, cfg, sessionOptions...)
	client := base.WithAuth(session)

	usersService := users.NewService(client)
	return &App{
		Config:        cfg,
		Repo:          repo,
		Jar:           jar,
		Client:        client,
		Auth:          authService,
		Session:       session,
		Users:         usersService,
		Profile:       users.NewProfileStore(usersService, session),
		Bookings:      bookings.NewService(client),
		Classrooms:    classrooms.NewService(client),
		Schedule:      schedule.NewService(client),
		Announcements: announcements.NewService(client),
		Admin:         admin.NewService(client),
		Toasts:        toast.NewStore(o.toastOptions...),
		Guard:         router.NewGuard(session),
	}, nil
}

// Close stops background timers
func (a *App) Close() {
	a.Session.Close()
	a.Toasts.Close()
}
