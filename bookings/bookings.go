package bookings

import (
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/go-classroom-client/api"
	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
)

// Status is the review state of a booking request
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusReturned  Status = "returned"
)

// BorrowType distinguishes one-off bookings from bookings spanning several days
type BorrowType string

const (
	BorrowSingle   BorrowType = "單次借用"
	BorrowMultiple BorrowType = "多次借用"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Booking is a classroom booking request
type Booking struct {
	RequestID          api.ID     `json:"request_id"`
	UserID             api.ID     `json:"user_id"`
	ClassroomID        string     `json:"classroom_id"`
	BorrowType         BorrowType `json:"borrow_type"`
	StartDate          string     `json:"start_date"`
	EndDate            string     `json:"end_date,omitempty"`
	StartTime          string     `json:"start_time"`
	EndTime            string     `json:"end_time"`
	EventName          string     `json:"event_name"`
	PeopleCount        int        `json:"people_count"`
	TeacherName        string     `json:"teacher_name"`
	Reason             string     `json:"reason"`
	Status             Status     `json:"status,omitempty"`
	RejectReason       string     `json:"reject_reason,omitempty"`
	CreatedAt          string     `json:"created_at,omitempty"`
	TeacherDepartment  string     `json:"teacher_department,omitempty"`
	TeacherPhone       string     `json:"teacher_phone,omitempty"`
	TeacherEmail       string     `json:"teacher_email,omitempty"`
	BorrowerDepartment string     `json:"borrower_department,omitempty"`
	BorrowerPhone      string     `json:"borrower_phone,omitempty"`
	BorrowerEmail      string     `json:"borrower_email,omitempty"`
}

// CreateRequest is the body of a new booking request
type CreateRequest struct {
	UserID             string     `json:"user_id"`
	ClassroomID        string     `json:"classroom_id"`
	BorrowType         BorrowType `json:"borrow_type"`
	StartDate          string     `json:"start_date"`
	EndDate            string     `json:"end_date,omitempty"`
	StartTime          string     `json:"start_time"`
	EndTime            string     `json:"end_time"`
	EventName          string     `json:"event_name"`
	PeopleCount        int        `json:"people_count"`
	TeacherName        string     `json:"teacher_name"`
	Reason             string     `json:"reason"`
	TeacherDepartment  string     `json:"teacher_department,omitempty"`
	TeacherPhone       string     `json:"teacher_phone,omitempty"`
	TeacherEmail       string     `json:"teacher_email,omitempty"`
	BorrowerDepartment string     `json:"borrower_department,omitempty"`
	BorrowerPhone      string     `json:"borrower_phone,omitempty"`
	BorrowerEmail      string     `json:"borrower_email,omitempty"`
}

// Validate checks the request before it is sent
func (r CreateRequest) Validate() error {
	var errs []error
	for _, f := range []struct{ name, value string }{
		{"user_id", r.UserID},
		{"classroom_id", r.ClassroomID},
		{"event_name", r.EventName},
		{"teacher_name", r.TeacherName},
		{"reason", r.Reason},
	} {
		if f.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", f.name))
		}
	}
	if r.PeopleCount <= 0 {
		errs = append(errs, errors.New("people_count must be positive"))
	}

	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		errs = append(errs, fmt.Errorf("start_date must be YYYY-MM-DD: %q", r.StartDate))
	}

	switch r.BorrowType {
	case BorrowSingle:
		if r.EndDate != "" && r.EndDate != r.StartDate {
			errs = append(errs, errors.New("end_date must match start_date for a single booking"))
		}
	case BorrowMultiple:
		end, err := time.Parse(DateLayout, r.EndDate)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("end_date must be YYYY-MM-DD: %q", r.EndDate))
		case !start.IsZero() && end.Before(start):
			errs = append(errs, errors.New("end_date is before start_date"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown borrow_type %q", r.BorrowType))
	}

	from, errFrom := time.Parse(TimeLayout, r.StartTime)
	if errFrom != nil {
		errs = append(errs, fmt.Errorf("start_time must be HH:MM: %q", r.StartTime))
	}
	to, errTo := time.Parse(TimeLayout, r.EndTime)
	if errTo != nil {
		errs = append(errs, fmt.Errorf("end_time must be HH:MM: %q", r.EndTime))
	}
	if errFrom == nil && errTo == nil && !to.After(from) {
		errs = append(errs, errors.New("end_time must be after start_time"))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, errors.Join(errs...))
}
