package commands

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-classroom-client/bookings"
	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
	"github.com/jrsteele09/go-classroom-client/router"
	"github.com/jrsteele09/go-classroom-client/toast"
)

type BookingsCmd struct {
	List   BookingsListCmd   `cmd:"" default:"1" help:"List your booking requests"`
	Show   BookingsShowCmd   `cmd:"" help:"Show a booking request"`
	Create BookingsCreateCmd `cmd:"" help:"Request a classroom"`
	Cancel BookingsCancelCmd `cmd:"" help:"Cancel a booking request"`
	Return BookingsReturnCmd `cmd:"" help:"Mark a booked classroom as returned"`
}

type BookingsListCmd struct {
	Status string `help:"Only requests with this status (pending, approved, rejected, cancelled, returned)"`
}

func (c *BookingsListCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.navigate(ctx, router.RouteRecord); err != nil {
		return err
	}
	list, err := globals.App.Bookings.Mine(ctx, globals.App.Session.UserID())
	if err != nil {
		return apperrors.Wrapf(err, "failed to list bookings")
	}
	return printBookings(globals, list, bookings.Status(c.Status))
}

func printBookings(globals *Globals, list []bookings.Booking, status bookings.Status) error {
	w := globals.table()
	fmt.Fprintln(w, "ID\tCLASSROOM\tDATE\tTIME\tEVENT\tSTATUS")
	for _, b := range list {
		if status != "" && b.Status != status {
			continue
		}
		date := b.StartDate
		if b.EndDate != "" && b.EndDate != b.StartDate {
			date += " - " + b.EndDate
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s-%s\t%s\t%s\n", b.RequestID, b.ClassroomID, date, b.StartTime, b.EndTime, b.EventName, b.Status)
	}
	return w.Flush()
}

type BookingsShowCmd struct {
	ID string `arg:"" help:"Booking request id"`
}

func (c *BookingsShowCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.navigate(ctx, router.RouteRecord); err != nil {
		return err
	}
	b, err := globals.App.Bookings.Get(ctx, c.ID)
	if err != nil {
		return apperrors.Wrapf(err, "failed to get booking %s", c.ID)
	}

	w := globals.table()
	fmt.Fprintf(w, "ID:\t%s\n", b.RequestID)
	fmt.Fprintf(w, "Classroom:\t%s\n", b.ClassroomID)
	fmt.Fprintf(w, "Type:\t%s\n", b.BorrowType)
	fmt.Fprintf(w, "Dates:\t%s %s\n", b.StartDate, b.EndDate)
	fmt.Fprintf(w, "Time:\t%s-%s\n", b.StartTime, b.EndTime)
	fmt.Fprintf(w, "Event:\t%s (%d people)\n", b.EventName, b.PeopleCount)
	fmt.Fprintf(w, "Teacher:\t%s\n", b.TeacherName)
	fmt.Fprintf(w, "Reason:\t%s\n", b.Reason)
	fmt.Fprintf(w, "Status:\t%s\n", b.Status)
	if b.RejectReason != "" {
		fmt.Fprintf(w, "Rejected because:\t%s\n", b.RejectReason)
	}
	return w.Flush()
}

type BookingsCreateCmd struct {
	Classroom          string `required:"" help:"Classroom id, e.g. C102"`
	Date               string `required:"" help:"Start date (YYYY-MM-DD)"`
	EndDate            string `help:"End date for a booking over several days (YYYY-MM-DD)"`
	Start              string `required:"" help:"Start time (HH:MM)"`
	End                string `required:"" help:"End time (HH:MM)"`
	Event              string `required:"" help:"Event or activity name"`
	People             int    `required:"" help:"Number of participants"`
	Teacher            string `required:"" help:"Supervising teacher"`
	Reason             string `required:"" help:"Reason for the booking"`
	TeacherDepartment  string `help:"Teacher's department"`
	TeacherPhone       string `help:"Teacher's phone"`
	TeacherEmail       string `help:"Teacher's email"`
	BorrowerDepartment string `help:"Your department"`
	BorrowerPhone      string `help:"Your phone"`
	BorrowerEmail      string `help:"Your email"`
}

func (c *BookingsCreateCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.navigate(ctx, router.RouteBooking); err != nil {
		return err
	}

	borrowType := bookings.BorrowSingle
	if c.EndDate != "" && c.EndDate != c.Date {
		borrowType = bookings.BorrowMultiple
	}
	req := bookings.CreateRequest{
		UserID:             globals.App.Session.UserID(),
		ClassroomID:        c.Classroom,
		BorrowType:         borrowType,
		StartDate:          c.Date,
		EndDate:            c.EndDate,
		StartTime:          c.Start,
		EndTime:            c.End,
		EventName:          c.Event,
		PeopleCount:        c.People,
		TeacherName:        c.Teacher,
		Reason:             c.Reason,
		TeacherDepartment:  c.TeacherDepartment,
		TeacherPhone:       c.TeacherPhone,
		TeacherEmail:       c.TeacherEmail,
		BorrowerDepartment: c.BorrowerDepartment,
		BorrowerPhone:      c.BorrowerPhone,
		BorrowerEmail:      c.BorrowerEmail,
	}

	msg, err := globals.App.Bookings.Create(ctx, req)
	if err != nil {
		globals.notify(toast.Error, "booking failed: %s", err)
		return err
	}
	globals.notify(toast.Success, "booking request %s submitted", msg.RequestID)
	return nil
}

type BookingsCancelCmd struct {
	ID string `arg:"" help:"Booking request id"`
}

func (c *BookingsCancelCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.navigate(ctx, router.RouteRecord); err != nil {
		return err
	}
	if _, err := globals.App.Bookings.Cancel(ctx, c.ID); err != nil {
		return apperrors.Wrapf(err, "failed to cancel booking %s", c.ID)
	}
	globals.notify(toast.Success, "booking %s cancelled", c.ID)
	return nil
}

type BookingsReturnCmd struct {
	ID string `arg:"" help:"Booking request id"`
}

func (c *BookingsReturnCmd) Run(ctx context.Context, globals *Globals) error {
	if err := globals.navigate(ctx, router.RouteRecord); err != nil {
		return err
	}
	if _, err := globals.App.Bookings.Return(ctx, c.ID); err != nil {
		return apperrors.Wrapf(err, "failed to return booking %s", c.ID)
	}
	globals.notify(toast.Success, "classroom for booking %s returned", c.ID)
	return nil
}
