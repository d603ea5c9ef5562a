package auth

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-classroom-client/api"
)

// Credentials is the login request body
type Credentials struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// TokenResponse is the payload of a successful login or refresh
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	AccessTokenSnake string `json:"access_token,omitempty"`
	UID              api.ID `json:"uid,omitempty"`
	UserID           api.ID `json:"user_id,omitempty"`
	Name             string `json:"name,omitempty"`
	Role             string `json:"role,omitempty"`
}

// Token returns the access token under either field name the backend uses
func (r TokenResponse) Token() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.AccessTokenSnake
}

// User returns the user id under either field name the backend uses
func (r TokenResponse) User() string {
	if r.UID != "" {
		return r.UID.String()
	}
	return r.UserID.String()
}

// API is the authentication surface of the backend
type API interface {
	Login(ctx context.Context, account, password string) (*TokenResponse, error)
	Refresh(ctx context.Context) (*TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
}

// Service calls the auth endpoints. The refresh token travels as an
// http-only cookie in the client's jar, so Refresh sends an empty body.
type Service struct {
	client *api.Client
}

var _ API = (*Service)(nil)

// NewService returns the auth endpoints for client. The client should not
// carry the auth interceptor: these calls establish the token it would use.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Login(ctx context.Context, account, password string) (*TokenResponse, error) {
	if account == "" {
		return nil, MissingAccountErr
	}
	if password == "" {
		return nil, MissingPasswordErr
	}
	var resp TokenResponse
	if err := s.client.Post(ctx, api.LoginPath, Credentials{Account: account, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token() == "" {
		return nil, fmt.Errorf("[Service.Login] %w", MissingAccessTokenErr)
	}
	return &resp, nil
}

func (s *Service) Refresh(ctx context.Context) (*TokenResponse, error) {
	var resp TokenResponse
	if err := s.client.Post(ctx, api.RefreshPath, struct{}{}, &resp); err != nil {
		return nil, err
	}
	if resp.Token() == "" {
		return nil, fmt.Errorf("[Service.Refresh] %w", MissingAccessTokenErr)
	}
	return &resp, nil
}

// Logout invalidates the server side session. accessToken may be empty.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	return s.client.Post(ctx, api.LogoutPath, struct{}{}, nil, api.WithBearer(accessToken))
}
