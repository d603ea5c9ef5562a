package commands

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-classroom-client/classrooms"
	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
	"github.com/jrsteele09/go-classroom-client/internal/utils"
	"github.com/jrsteele09/go-classroom-client/router"
	"github.com/jrsteele09/go-classroom-client/toast"
)

type ClassroomsCmd struct {
	List   ClassroomsListCmd   `cmd:"" default:"1" help:"List classrooms"`
	Show   ClassroomsShowCmd   `cmd:"" help:"Show a classroom"`
	Update ClassroomsUpdateCmd `cmd:"" help:"Change a classroom's details (admin)"`
}

type ClassroomsListCmd struct {
	Type        string `help:"Only classrooms of this type"`
	MinCapacity int    `help:"Only classrooms holding at least this many people"`
}

func (c *ClassroomsListCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.navigate(ctx, router.RouteClassrooms); err != nil {
		return err
	}
	list, err := globals.App.Classrooms.List(ctx)
	if err != nil {
		return apperrors.Wrapf(err, "failed to list classrooms")
	}

	w := globals.table()
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tCAPACITY")
	for _, room := range list {
		if c.Type != "" && room.Type != c.Type {
			continue
		}
		if room.Capacity < c.MinCapacity {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", room.ClassroomID, room.Name, room.Type, room.Capacity)
	}
	return w.Flush()
}

type ClassroomsShowCmd struct {
	ID string `arg:"" help:"Classroom id, e.g. C101"`
}

func (c *ClassroomsShowCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.navigate(ctx, router.RouteClassrooms); err != nil {
		return err
	}
	room, err := globals.App.Classrooms.Get(ctx, c.ID)
	if err != nil {
		return apperrors.Wrapf(err, "failed to get classroom %s", c.ID)
	}

	w := globals.table()
	fmt.Fprintf(w, "ID:\t%s\n", room.ClassroomID)
	fmt.Fprintf(w, "Name:\t%s\n", room.Name)
	fmt.Fprintf(w, "Type:\t%s\n", room.Type)
	fmt.Fprintf(w, "Capacity:\t%d\n", room.Capacity)
	if room.Description != "" {
		fmt.Fprintf(w, "Description:\t%s\n", room.Description)
	}
	if room.ImageURL != "" {
		fmt.Fprintf(w, "Image:\t%s\n", room.ImageURL)
	}
	return w.Flush()
}

type ClassroomsUpdateCmd struct {
	ID          string `arg:"" help:"Classroom id, e.g. C101"`
	Name        string `help:"New name"`
	Type        string `help:"New type"`
	Capacity    int    `help:"New capacity"`
	Description string `help:"New description"`
	ImageURL    string `name:"image-url" help:"New image URL"`
}

func (c *ClassroomsUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.requireAdmin(ctx, router.RouteAdmin); err != nil {
		return err
	}
	u := classrooms.Update{
		Name:        utils.PtrIfSet(c.Name),
		Type:        utils.PtrIfSet(c.Type),
		Capacity:    utils.PtrIfSet(c.Capacity),
		Description: utils.PtrIfSet(c.Description),
		ImageURL:    utils.PtrIfSet(c.ImageURL),
	}
	if _, err := globals.App.Classrooms.Update(ctx, c.ID, u); err != nil {
		return apperrors.Wrapf(err, "failed to update classroom %s", c.ID)
	}
	globals.notify(toast.Success, "classroom %s updated", c.ID)
	return nil
}
