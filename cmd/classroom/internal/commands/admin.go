package commands

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-classroom-client/admin"
	"github.com/jrsteele09/go-classroom-client/bookings"
	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
	"github.com/jrsteele09/go-classroom-client/router"
	"github.com/jrsteele09/go-classroom-client/toast"
)

type AdminCmd struct {
	Bookings  AdminBookingsCmd  `cmd:"" default:"1" help:"List booking requests"`
	Approve   AdminApproveCmd   `cmd:"" help:"Approve a booking request"`
	Reject    AdminRejectCmd    `cmd:"" help:"Reject a booking request"`
	Blacklist AdminBlacklistCmd `cmd:"" help:"List blacklisted users"`
	Ban       AdminBanCmd       `cmd:"" help:"Add a user to the blacklist"`
	Unban     AdminUnbanCmd     `cmd:"" help:"Remove a user from the blacklist"`
}

type AdminBookingsCmd struct {
	Pending bool `help:"Only requests awaiting review"`
}

func (c *AdminBookingsCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.requireAdmin(ctx, router.RouteAdminBookings); err != nil {
		return err
	}
	list, err := c.list(ctx, globals.App.Admin)
	if err != nil {
		return apperrors.Wrapf(err, "failed to list booking requests")
	}
	return printBookings(globals, list, "")
}

func (c *AdminBookingsCmd) list(ctx context.Context, svc *admin.Service) ([]bookings.Booking, error) {
	if c.Pending {
		return svc.Pending(ctx)
	}
	return svc.Bookings(ctx)
}

type AdminApproveCmd struct {
	ID string `arg:"" help:"Booking request id"`
}

func (c *AdminApproveCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.requireAdmin(ctx, router.RouteAdminBookings); err != nil {
		return err
	}
	if _, err := globals.App.Admin.Approve(ctx, c.ID); err != nil {
		return apperrors.Wrapf(err, "failed to approve booking %s", c.ID)
	}
	globals.notify(toast.Success, "booking %s approved", c.ID)
	return nil
}

type AdminRejectCmd struct {
	ID     string `arg:"" help:"Booking request id"`
	Reason string `required:"" help:"Reason shown to the borrower"`
}

func (c *AdminRejectCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.requireAdmin(ctx, router.RouteAdminBookings); err != nil {
		return err
	}
	if _, err := globals.App.Admin.Reject(ctx, c.ID, c.Reason); err != nil {
		return apperrors.Wrapf(err, "failed to reject booking %s", c.ID)
	}
	globals.notify(toast.Success, "booking %s rejected", c.ID)
	return nil
}

type AdminBlacklistCmd struct{}

func (c *AdminBlacklistCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.requireAdmin(ctx, router.RouteAdminBlacklist); err != nil {
		return err
	}
	entries, err := globals.App.Admin.Blacklist(ctx)
	if err != nil {
		return apperrors.Wrapf(err, "failed to list blacklist")
	}

	w := globals.table()
	fmt.Fprintln(w, "USER\tREASON\tUNTIL")
	for _, e := range entries {
		until := e.ExpiredAt
		if until == "" {
			until = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.UserID, e.Reason, until)
	}
	return w.Flush()
}

type AdminBanCmd struct {
	UserID string `arg:"" help:"User id"`
	Reason string `required:"" help:"Reason for blacklisting"`
	Until  string `help:"Expiry date (YYYY-MM-DD); omit for no expiry"`
}

func (c *AdminBanCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.requireAdmin(ctx, router.RouteAdminBlacklist); err != nil {
		return err
	}
	req := admin.BlacklistRequest{UserID: c.UserID, Reason: c.Reason, ExpiredAt: c.Until}
	if _, err := globals.App.Admin.AddToBlacklist(ctx, req); err != nil {
		return apperrors.Wrapf(err, "failed to blacklist user %s", c.UserID)
	}
	globals.notify(toast.Warning, "user %s blacklisted", c.UserID)
	return nil
}

type AdminUnbanCmd struct {
	UserID string `arg:"" help:"User id"`
}

func (c *AdminUnbanCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.requireAdmin(ctx, router.RouteAdminBlacklist); err != nil {
		return err
	}
	if _, err := globals.App.Admin.RemoveFromBlacklist(ctx, c.UserID); err != nil {
		return apperrors.Wrapf(err, "failed to remove user %s from the blacklist", c.UserID)
	}
	globals.notify(toast.Success, "user %s removed from the blacklist", c.UserID)
	return nil
}
