package announcements

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/jrsteele09/go-classroom-client/api"
)

const basePath = "/announcements/"

var (
	MissingIDErr    = errors.New("announcement id is required")
	MissingTitleErr = errors.New("announcement title is required")
)

// Announcement is a notice published by administrators
type Announcement struct {
	AnnouncementID api.ID     `json:"announcement_id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
	ExpiredAt      *time.Time `json:"expired_at"`
}

// Active reports whether the announcement has not expired at now
func (a Announcement) Active(now time.Time) bool {
	return a.ExpiredAt == nil || now.Before(*a.ExpiredAt)
}

// Input is the body of a create or update
type Input struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	ExpiredAt string `json:"expired_at,omitempty"` // YYYY-MM-DD
}

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func (s *Service) List(ctx context.Context) ([]Announcement, error) {
	var out []Announcement
	if err := s.client.Get(ctx, basePath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Active lists the announcements that have not expired at now
func (s *Service) Active(ctx context.Context, now time.Time) ([]Announcement, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	active := all[:0]
	for _, a := range all {
		if a.Active(now) {
			active = append(active, a)
		}
	}
	return active, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Announcement, error) {
	if id == "" {
		return nil, MissingIDErr
	}
	var out Announcement
	if err := s.client.Get(ctx, basePath+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*api.Message, error) {
	if in.Title == "" {
		return nil, MissingTitleErr
	}
	var out api.Message
	if err := s.client.Post(ctx, basePath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*api.Message, error) {
	if id == "" {
		return nil, MissingIDErr
	}
	var out api.Message
	if err := s.client.Put(ctx, basePath+url.PathEscape(id), in, &out); err != nil {
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
