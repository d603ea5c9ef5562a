package users

import (
	"context"
	"errors"
	"net/url"

	"github.com/jrsteele09/go-classroom-client/api"
)

const profilePath = "/users/profile"

var MissingUserIDErr = errors.New("user id is required")

// Service calls the user endpoints
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Profile fetches the profile of uid
func (s *Service) Profile(ctx context.Context, uid string) (*Profile, error) {
	if uid == "" {
		return nil, MissingUserIDErr
	}
	var p Profile
	if err := s.client.Get(ctx, profilePath, url.Values{"uid": {uid}}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
