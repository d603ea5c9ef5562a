package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
	"github.com/jrsteele09/go-classroom-client/router"
	"github.com/jrsteele09/go-classroom-client/toast"
	"golang.org/x/term"
)

type LoginCmd struct {
	Account  string `arg:"" help:"Account to sign in with"`
	Password string `help:"Password (prompted for when omitted)" env:"CLASSROOM_PASSWORD"`
	Redirect string `help:"Route to continue to after signing in" default:"/"`
}

func (c *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.navigate(ctx, router.LoginRedirect(c.Redirect)); err != nil {
		return err
	}

	password := c.Password
	if password == "" {
		var err error
		if password, err = readPassword(globals.Out); err != nil {
			return err
		}
	}

	if _, err := globals.App.Session.Login(ctx, c.Account, password); err != nil {
		globals.notify(toast.Error, "%s", err)
		return err
	}
	if err := globals.App.Profile.Fetch(ctx); err != nil {
		globals.notify(toast.Warning, "signed in, but the profile could not be loaded")
	}

	name := globals.App.Profile.Username()
	if name == "" {
		name = c.Account
	}
	globals.notify(toast.Success, "welcome, %s", name)
	if target := router.RedirectTarget(router.LoginRedirect(c.Redirect)); target != router.RouteHome {
		fmt.Fprintf(globals.Out, "continue with: %s\n", target)
	}
	return nil
}

// readPassword prompts without echo on a terminal, otherwise reads a line
func readPassword(out io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(out, "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", apperrors.Wrapf(err, "failed to read password")
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", apperrors.Wrapf(err, "failed to read password")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.App.Guard.Initialize(ctx); err != nil && ctx.Err() != nil {
		return err
	}
	globals.App.Session.Logout(ctx)
	globals.notify(toast.Info, "signed out")
	return nil
}

type SSOCmd struct{}

func (c *SSOCmd) Run(globals *Globals) error {
	fmt.Fprintf(globals.Out, "Sign in through single sign-on at %s\n", globals.App.Session.SSOURL())
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.navigate(ctx, router.RouteProfile); err != nil {
		return err
	}
	if err := globals.App.Profile.Fetch(ctx); err != nil {
		return err
	}

	p := globals.App.Profile.Profile()
	if p == nil {
		return apperrors.ErrLoginRequired
	}
	w := globals.table()
	fmt.Fprintf(w, "User ID:\t%s\n", globals.App.Session.UserID())
	fmt.Fprintf(w, "Account:\t%s\n", p.Account)
	fmt.Fprintf(w, "Name:\t%s\n", p.DisplayName())
	fmt.Fprintf(w, "Role:\t%s\n", p.Role)
	if p.Email != "" {
		fmt.Fprintf(w, "Email:\t%s\n", p.Email)
	}
	if p.Position != "" {
		fmt.Fprintf(w, "Position:\t%s\n", p.Position)
	}
	return w.Flush()
}
