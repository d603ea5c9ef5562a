package bookings

import (
	"context"
	"errors"
	"net/url"

	"github.com/jrsteele09/go-classroom-client/api"
)

const basePath = "/bookings/"

var MissingIDErr = errors.New("booking id is required")

// Service calls the booking endpoints
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Mine lists the booking requests made by userID
func (s *Service) Mine(ctx context.Context, userID string) ([]Booking, error) {
	var out []Booking
	if err := s.client.Get(ctx, basePath, url.Values{"id": {userID}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Booking, error) {
	if id == "" {
		return nil, MissingIDErr
	}
	var out Booking
	if err := s.client.Get(ctx, basePath+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create submits a booking request after validating it
func (s *Service) Create(ctx context.Context, req CreateRequest) (*api.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out api.Message
	if err := s.client.Post(ctx, basePath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Cancel(ctx context.Context, id string) (*api.Message, error) {
	return s.transition(ctx, id, "cancel")
}

// Return marks the classroom of a completed booking as returned
func (s *Service) Return(ctx context.Context, id string) (*api.Message, error) {
	return s.transition(ctx, id, "return")
}

func (s *Service) transition(ctx context.Context, id, action string) (*api.Message, error) {
	if id == "" {
		return nil, MissingIDErr
	}
	var out api.Message
	if err := s.client.Put(ctx, basePath+url.PathEscape(id)+"/"+action, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
