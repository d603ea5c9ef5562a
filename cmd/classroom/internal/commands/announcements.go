package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/go-classroom-client/announcements"
	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
	"github.com/jrsteele09/go-classroom-client/router"
)

type AnnouncementsCmd struct {
	List AnnouncementsListCmd `cmd:"" default:"1" help:"List announcements"`
	Show AnnouncementsShowCmd `cmd:"" help:"Show an announcement"`
}

type AnnouncementsListCmd struct {
	All bool `help:"Include expired announcements"`
}

func (c *AnnouncementsListCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.navigate(ctx, router.RouteAnnouncements); err != nil {
		return err
	}

	var (
		list []announcements.Announcement
		err  error
	)
	if c.All {
		list, err = globals.App.Announcements.List(ctx)
	} else {
		list, err = globals.App.Announcements.Active(ctx, time.Now())
	}
	if err != nil {
		return apperrors.Wrapf(err, "failed to list announcements")
	}

	w := globals.table()
	fmt.Fprintln(w, "ID\tPOSTED\tTITLE")
	for _, a := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n", a.AnnouncementID, a.CreatedAt.Local().Format(time.DateOnly), a.Title)
	}
	return w.Flush()
}

type AnnouncementsShowCmd struct {
	ID string `arg:"" help:"Announcement id"`
}

func (c *AnnouncementsShowCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.navigate(ctx, router.RouteAnnouncements); err != nil {
		return err
	}
	a, err := globals.App.Announcements.Get(ctx, c.ID)
	if err != nil {
		return apperrors.Wrapf(err, "failed to get announcement %s", c.ID)
	}

	fmt.Fprintf(globals.Out, "%s\n%s\n\n%s\n", a.Title, a.CreatedAt.Local().Format(time.DateTime), a.Content)
	if a.ExpiredAt != nil {
		fmt.Fprintf(globals.Out, "\nexpires %s\n", a.ExpiredAt.Local().Format(time.DateOnly))
	}
	return nil
}
