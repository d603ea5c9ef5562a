package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
	"github.com/jrsteele09/go-classroom-client/router"
	"github.com/jrsteele09/go-classroom-client/schedule"
)

type ScheduleCmd struct {
	Classroom string `arg:"" help:"Classroom id, e.g. C101"`
	Date      string `help:"Day to show (YYYY-MM-DD), defaults to today"`
	From      string `help:"First day of a range (YYYY-MM-DD)"`
	To        string `help:"Last day of a range (YYYY-MM-DD)"`
}

func (c *ScheduleCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.navigate(ctx, router.RouteSchedule); err != nil {
		return err
	}

	var (
		entries []schedule.Entry
		err     error
	)
	switch {
	case c.From != "" || c.To != "":
		if c.From == "" || c.To == "" {
			return errors.New("--from and --to must be given together")
		}
		entries, err = globals.App.Schedule.ForRange(ctx, c.From, c.To, c.Classroom)
	default:
		date := c.Date
		if date == "" {
			date = time.Now().Format(time.DateOnly)
		}
		entries, err = globals.App.Schedule.ForDate(ctx, date, c.Classroom)
	}
	if err != nil {
		return apperrors.Wrapf(err, "failed to get schedule")
	}

	if len(entries) == 0 {
		fmt.Fprintf(globals.Out, "%s is free\n", c.Classroom)
		return nil
	}
	w := globals.table()
	fmt.Fprintln(w, "DATE\tSLOT\tEVENT\tSTATUS\tREQUEST")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Day(), e.TimeSlot, e.EventName, e.Status, e.BorrowRequestID)
	}
	return w.Flush()
}
