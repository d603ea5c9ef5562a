package classrooms

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-classroom-client/api"
	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
)

const basePath = "/classrooms/"

var MissingIDErr = errors.New("classroom id is required")

// Classroom is a bookable room
type Classroom struct {
	ClassroomID string `json:"classroom_id"` // e.g. "C101"
	Name        string `json:"name"`
	Type        string `json:"type"`
	Capacity    int    `json:"capacity"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// createRequest carries the caller's role, which the backend checks
type createRequest struct {
	Role string `json:"role"`
	Classroom
}

// Update holds the fields to change; nil fields are left as they are
type Update struct {
	Name        *string `json:"name,omitempty"`
	Type        *string `json:"type,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// Service calls the classroom endpoints. Create, Update and Delete are admin only.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func (s *Service) List(ctx context.Context) ([]Classroom, error) {
	var out []Classroom
	if err := s.client.Get(ctx, basePath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Classroom, error) {
	if id == "" {
		return nil, MissingIDErr
	}
	var out Classroom
	if err := s.client.Get(ctx, basePath+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Create(ctx context.Context, c Classroom) (*api.Message, error) {
	if c.ClassroomID == "" {
		return nil, MissingIDErr
	}
	if c.Name == "" || c.Capacity <= 0 {
		return nil, fmt.Errorf("[Service.Create] %w: name and a positive capacity are required", apperrors.ErrInvalidRequest)
	}
	var out api.Message
	if err := s.client.Post(ctx, basePath, createRequest{Role: "admin", Classroom: c}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Update(ctx context.Context, id string, u Update) (*api.Message, error) {
	if id == "" {
		return nil, MissingIDErr
	}
	if u.Capacity != nil && *u.Capacity <= 0 {
		return nil, fmt.Errorf("[Service.Update] %w: capacity must be positive", apperrors.ErrInvalidRequest)
	}
	var out api.Message
	if err := s.client.Put(ctx, basePath+url.PathEscape(id), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, id string) (*api.Message, error) {
	if id == "" {
		return nil, MissingIDErr
	}
	var out api.Message
	if err := s.client.Delete(ctx, basePath+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
