package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jrsteele09/go-classroom-client/app"
	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
	"github.com/jrsteele09/go-classroom-client/toast"
)

type Globals struct {
	Debug   bool
	Version string
	App     *app.App
	Out     io.Writer
}

// navigate checks route with the guard before a command touches the API
func (g *Globals) navigate(ctx context.Context, route string) error {
	d := g.App.Guard.BeforeEach(ctx, route)
	if d.Err != nil {
		return d.Err
	}
	if !d.Allow {
		return fmt.Errorf("%w: run `classroom login --redirect %s` first", apperrors.ErrLoginRequired, route)
	}
	return nil
}

// requireAdmin navigates to route and checks the signed-in user is an admin
func (g *Globals) requireAdmin(ctx context.Context, route string) error {
	if err := g.navigate(ctx, route); err != nil {
		return err
	}
	if err := g.App.Profile.Fetch(ctx); err != nil {
		return err
	}
	if !g.App.Profile.Profile().IsAdmin() {
		return fmt.Errorf("%w: admin role required", apperrors.ErrForbidden)
	}
	return nil
}

func (g *Globals) notify(severity toast.Severity, format string, args ...any) {
	g.App.Toasts.Show(fmt.Sprintf(format, args...), severity, toast.DefaultDuration)
}

func (g *Globals) table() *tabwriter.Writer {
	return tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
}
