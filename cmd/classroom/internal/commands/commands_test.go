package commands

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-classroom-client/app"
	"github.com/jrsteele09/go-classroom-client/internal/config"
	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
	"github.com/jrsteele09/go-classroom-client/internal/testutil/fakebackend"
	"github.com/jrsteele09/go-classroom-client/toast"
	"github.com/stretchr/testify/require"
)

var (
	student   = fakebackend.User{ID: "7", Account: "sam", Password: "pw", Name: "Sam", Role: "student"}
	adminUser = fakebackend.User{ID: "1", Account: "root", Password: "pw", Name: "Root", Role: "admin"}
)

func setupGlobals(t *testing.T) (*Globals, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	backend := fakebackend.New(t, student, adminUser)
	t.Setenv("CLASSROOM_API_URL", backend.URL)
	t.Setenv("CLASSROOM_STATE_DIR", t.TempDir())
	t.Setenv("CLASSROOM_SSO_URL", "http://sso.test")

	var out, toasts bytes.Buffer
	printer := NewToastPrinter(&toasts, false)
	a, err := app.New(config.New(), app.WithToastOptions(toast.WithOnChange(printer.OnChange)))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return &Globals{App: a, Out: &out}, &out, &toasts
}

func TestToastPrinter_PrintsEachToastOnce(t *testing.T) {
	var buf bytes.Buffer
	p := NewToastPrinter(&buf, false)
	now := time.Now()

	first := toast.Toast{ID: "a", Message: "saved", Severity: toast.Success, CreatedAt: now}
	second := toast.Toast{ID: "b", Message: "oops", Severity: toast.Error, CreatedAt: now}
	p.OnChange([]toast.Toast{first})
	p.OnChange([]toast.Toast{first, second})
	p.OnChange(nil)

	require.Equal(t, "[success] saved\n[error] oops\n", buf.String())
}

func TestToastPrinter_Colours(t *testing.T) {
	var buf bytes.Buffer
	NewToastPrinter(&buf, true).OnChange([]toast.Toast{{ID: "a", Message: "careful", Severity: toast.Warning}})
	require.Equal(t, Yellow+"[warning]"+ResetColor+" careful\n", buf.String())
}

func TestCommands_RequireLogin(t *testing.T) {
	globals, _, _ := setupGlobals(t)
	ctx := context.Background()

	err := (&BookingsListCmd{}).Run(ctx, globals)
	require.ErrorIs(t, err, apperrors.ErrLoginRequired)
	require.Contains(t, err.Error(), "--redirect /record")
}

func TestCommands_LoginAndListBookings(t *testing.T) {
	globals, out, toasts := setupGlobals(t)
	ctx := context.Background()

	require.NoError(t, (&LoginCmd{Account: "sam", Password: "pw", Redirect: "/record"}).Run(ctx, globals))
	require.Contains(t, toasts.String(), "[success] welcome, Sam")
	require.Contains(t, out.String(), "continue with: /record")

	out.Reset()
	require.NoError(t, (&BookingsListCmd{}).Run(ctx, globals))
	require.Contains(t, out.String(), "C101")
	require.Contains(t, out.String(), "rehearsal")

	out.Reset()
	require.NoError(t, (&BookingsListCmd{Status: "approved"}).Run(ctx, globals))
	require.NotContains(t, out.String(), "C101")
}

func TestCommands_WrongPassword(t *testing.T) {
	globals, _, toasts := setupGlobals(t)

	err := (&LoginCmd{Account: "sam", Password: "nope", Redirect: "/"}).Run(context.Background(), globals)
	require.Error(t, err)
	require.Contains(t, toasts.String(), "[error] wrong account or password")
	require.False(t, globals.App.Session.IsLoggedIn())
}

func TestCommands_AdminRequiresAdminRole(t *testing.T) {
	globals, _, _ := setupGlobals(t)
	ctx := context.Background()

	require.NoError(t, (&LoginCmd{Account: "sam", Password: "pw", Redirect: "/"}).Run(ctx, globals))
	err := (&AdminBookingsCmd{}).Run(ctx, globals)
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCommands_AnnouncementsArePublic(t *testing.T) {
	globals, out, _ := setupGlobals(t)

	require.NoError(t, (&AnnouncementsListCmd{}).Run(context.Background(), globals))
	require.Contains(t, out.String(), "welcome")
}

func TestCommands_Logout(t *testing.T) {
	globals, _, toasts := setupGlobals(t)
	ctx := context.Background()

	require.NoError(t, (&LoginCmd{Account: "sam", Password: "pw", Redirect: "/"}).Run(ctx, globals))
	require.NoError(t, (&LogoutCmd{}).Run(ctx, globals))
	require.False(t, globals.App.Session.IsLoggedIn())
	require.Contains(t, toasts.String(), "[info] signed out")
}
