package authfake

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jrsteele09/go-classroom-client/api"
	"github.com/jrsteele09/go-classroom-client/auth"
)

// FakeAPI is a programmable auth.API. Unset funcs fail with Err.
type FakeAPI struct {
	mu sync.Mutex

	LoginFunc   func(ctx context.Context, account, password string) (*auth.TokenResponse, error)
	RefreshFunc func(ctx context.Context) (*auth.TokenResponse, error)
	LogoutFunc  func(ctx context.Context, accessToken string) error
	Err         error

	LoginCalls   atomic.Int32
	RefreshCalls atomic.Int32
	LogoutCalls  atomic.Int32
	logoutTokens []string
}

var _ auth.API = (*FakeAPI)(nil)

func NewFakeAPI() *FakeAPI {
	return &FakeAPI{}
}

func (f *FakeAPI) Login(ctx context.Context, account, password string) (*auth.TokenResponse, error) {
	f.LoginCalls.Add(1)
	if f.LoginFunc == nil {
		return nil, f.Err
	}
	return f.LoginFunc(ctx, account, password)
}

func (f *FakeAPI) Refresh(ctx context.Context) (*auth.TokenResponse, error) {
	f.RefreshCalls.Add(1)
	if f.RefreshFunc == nil {
		return nil, f.Err
	}
	return f.RefreshFunc(ctx)
}

func (f *FakeAPI) Logout(ctx context.Context, accessToken string) error {
	f.LogoutCalls.Add(1)
	f.mu.Lock()
	f.logoutTokens = append(f.logoutTokens, accessToken)
	f.mu.Unlock()
	if f.LogoutFunc == nil {
		return f.Err
	}
	return f.LogoutFunc(ctx, accessToken)
}

// LogoutTokens returns the bearer tokens Logout was called with
func (f *FakeAPI) LogoutTokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.logoutTokens...)
}

// Tokens returns a response carrying accessToken and userID
func Tokens(accessToken, userID string) *auth.TokenResponse {
	return &auth.TokenResponse{AccessToken: accessToken, UID: api.ID(userID)}
}
