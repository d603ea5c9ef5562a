package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-classroom-client/app"
	"github.com/jrsteele09/go-classroom-client/cmd/classroom/internal/commands"
	"github.com/jrsteele09/go-classroom-client/internal/config"
	"github.com/jrsteele09/go-classroom-client/internal/logger"
	"github.com/jrsteele09/go-classroom-client/toast"
	"golang.org/x/term"
)

var (
	version = "dev"
	cli     struct {
		Login         commands.LoginCmd         `cmd:"" help:"Sign in"`
		Logout        commands.LogoutCmd        `cmd:"" help:"Sign out"`
		SSO           commands.SSOCmd           `cmd:"" name:"sso" help:"Print the single sign-on URL"`
		Whoami        commands.WhoamiCmd        `cmd:"" help:"Show the signed in user"`
		Classrooms    commands.ClassroomsCmd    `cmd:"" help:"Browse classrooms"`
		Schedule      commands.ScheduleCmd      `cmd:"" help:"Show a classroom's schedule"`
		Bookings      commands.BookingsCmd      `cmd:"" help:"Manage your booking requests"`
		Announcements commands.AnnouncementsCmd `cmd:"" help:"Read announcements"`
		Admin         commands.AdminCmd         `cmd:"" help:"Review bookings and manage the blacklist"`
		Debug         bool                      `help:"Enable debug mode."`
		NoBanner      bool                      `help:"Do not print the banner on login."`
		Version       kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx := kong.Parse(&cli,
		kong.Name("classroom"),
		kong.Description("Classroom booking client"),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	logger.Setup(cli.Debug)
	cfg := config.New()
	if kctx.Command() == "login <account>" && !cli.NoBanner {
		displayAppname(cfg.GetAppName())
	}

	printer := commands.NewToastPrinter(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
	a, err := app.New(cfg, app.WithToastOptions(toast.WithOnChange(printer.OnChange)))
	kctx.FatalIfErrorf(err)

	err = kctx.Run(&commands.Globals{Debug: cli.Debug, Version: version, App: a, Out: os.Stdout})
	a.Close()
	kctx.FatalIfErrorf(err)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
