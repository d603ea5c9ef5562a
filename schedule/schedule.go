package schedule

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jrsteele09/go-classroom-client/api"
	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
)

const (
	schedulePath = "/bookings/schedule/"
	dateLayout   = "2006-01-02"
)

// Entry is one booked time slot of a classroom
type Entry struct {
	ScheduleID      api.ID `json:"schedule_id"`
	ClassroomID     string `json:"classroom_id"`
	Date            string `json:"date"`
	TimeSlot        string `json:"time_slot"` // "09:00-11:00"
	BookedBy        api.ID `json:"booked_by"`
	BorrowRequestID api.ID `json:"borrow_request_id"`
	EventName       string `json:"event_name"`
	Status          string `json:"status"`
}

// Day returns the entry's calendar date in YYYY-MM-DD form
func (e Entry) Day() string {
	if len(e.Date) >= len(dateLayout) {
		return e.Date[:len(dateLayout)]
	}
	return e.Date
}

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// ForDate returns the schedule of classroomID on date (YYYY-MM-DD)
func (s *Service) ForDate(ctx context.Context, date, classroomID string) ([]Entry, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("[Service.ForDate] %w: date must be YYYY-MM-DD", apperrors.ErrInvalidRequest)
	}
	return s.get(ctx, url.Values{"date": {date}, "classroom_id": {classroomID}})
}

// ForRange returns the schedule of classroomID between start and end inclusive
func (s *Service) ForRange(ctx context.Context, start, end, classroomID string) ([]Entry, error) {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("[Service.ForRange] %w: start date must be YYYY-MM-DD", apperrors.ErrInvalidRequest)
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("[Service.ForRange] %w: end date must be YYYY-MM-DD", apperrors.ErrInvalidRequest)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("[Service.ForRange] %w: end date is before start date", apperrors.ErrInvalidRequest)
	}
	return s.get(ctx, url.Values{"start_date": {start}, "end_date": {end}, "classroom_id": {classroomID}})
}

func (s *Service) get(ctx context.Context, query url.Values) ([]Entry, error) {
	if query.Get("classroom_id") == "" {
		return nil, fmt.Errorf("%w: classroom id is required", apperrors.ErrInvalidRequest)
	}
	var out []Entry
	if err := s.client.Get(ctx, schedulePath, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}
