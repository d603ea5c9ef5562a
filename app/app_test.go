package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-classroom-client/app"
	"github.com/jrsteele09/go-classroom-client/internal/config"
	"github.com/jrsteele09/go-classroom-client/internal/testutil/fakebackend"
	"github.com/jrsteele09/go-classroom-client/router"
	"github.com/jrsteele09/go-classroom-client/sessions"
	"github.com/jrsteele09/go-classroom-client/storage"
	"github.com/stretchr/testify/require"
)

var alice = fakebackend.User{ID: "1", Account: "alice", Password: "pw", Name: "Alice", Role: "student"}

func setupApp(t *testing.T, backend *fakebackend.Backend, stateDir string) *app.App {
	t.Helper()
	t.Setenv("CLASSROOM_API_URL", backend.URL)
	t.Setenv("CLASSROOM_STATE_DIR", stateDir)
	t.Setenv("CLASSROOM_SSO_URL", "http://sso.test")

	a, err := app.New(config.New())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestLoginProfileAndTransparentRefresh(t *testing.T) {
	backend := fakebackend.New(t, alice)
	a := setupApp(t, backend, t.TempDir())
	ctx := context.Background()

	d := a.Guard.BeforeEach(ctx, router.RouteRecord)
	require.False(t, d.Allow)
	require.Equal(t, "/login?redirect=/record", d.Redirect)

	_, err := a.Session.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	require.True(t, a.Session.IsLoggedIn())
	require.True(t, a.Guard.BeforeEach(ctx, router.RouteRecord).Allow)

	require.NoError(t, a.Profile.Fetch(ctx))
	require.Equal(t, "Alice", a.Profile.Username())

	before := a.Session.AccessToken()
	refreshes := backend.RefreshCalls.Load()
	backend.RevokeAccessTokens()

	list, err := a.Bookings.Mine(ctx, a.Session.UserID())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, refreshes+1, backend.RefreshCalls.Load())
	require.NotEqual(t, before, a.Session.AccessToken())
}

func TestRefreshFailureSignsOut(t *testing.T) {
	backend := fakebackend.New(t, alice)
	a := setupApp(t, backend, t.TempDir())
	ctx := context.Background()

	_, err := a.Session.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	require.NoError(t, a.Profile.Fetch(ctx))

	backend.RevokeAccessTokens()
	backend.RevokeRefreshTokens()

	_, err = a.Bookings.Mine(ctx, "1")
	require.Error(t, err)
	require.False(t, a.Session.IsLoggedIn())
	require.Nil(t, a.Profile.Profile())
}

func TestSessionSurvivesRestart(t *testing.T) {
	backend := fakebackend.New(t, alice)
	dir := t.TempDir()
	ctx := context.Background()

	first := setupApp(t, backend, dir)
	_, err := first.Session.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	first.Close()

	second := setupApp(t, backend, dir)
	require.False(t, second.Session.IsLoggedIn())

	d := second.Guard.BeforeEach(ctx, router.RouteProfile)
	require.True(t, d.Allow)
	require.Equal(t, "1", second.Session.UserID())
	require.NotEmpty(t, second.Session.AccessToken())
}

func TestLogoutEndsSession(t *testing.T) {
	backend := fakebackend.New(t, alice)
	dir := t.TempDir()
	a := setupApp(t, backend, dir)
	ctx := context.Background()

	_, err := a.Session.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	a.Session.Logout(ctx)
	require.False(t, a.Session.IsLoggedIn())
	require.Equal(t, int32(1), backend.LogoutCalls.Load())

	repo, err := storage.NewFileRepo(dir)
	require.NoError(t, err)
	_, ok := repo.Get("uid")
	require.False(t, ok)

	restarted := setupApp(t, backend, dir)
	require.Error(t, restarted.Session.InitializeAuth(ctx))
	require.False(t, restarted.Session.IsLoggedIn())
}

func TestWrongPassword(t *testing.T) {
	backend := fakebackend.New(t, alice)
	a := setupApp(t, backend, t.TempDir())

	_, err := a.Session.Login(context.Background(), "alice", "nope")
	require.Equal(t, sessions.KindCredentials, sessions.KindOf(err))
	require.EqualError(t, err, "wrong account or password")
	require.False(t, a.Session.IsLoggedIn())
}

func TestPublicAnnouncements(t *testing.T) {
	backend := fakebackend.New(t, alice)
	a := setupApp(t, backend, t.TempDir())
	ctx := context.Background()

	require.True(t, a.Guard.BeforeEach(ctx, router.RouteAnnouncements).Allow)
	active, err := a.Announcements.Active(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "http://sso.test", a.Session.SSOURL())
}
