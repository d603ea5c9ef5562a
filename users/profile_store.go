package users

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Session is the part of the session store the profile cache reads
type Session interface {
	UserID() string
	AccessToken() string
	OnCleared(fn func())
}

// ProfileAPI fetches profiles
type ProfileAPI interface {
	Profile(ctx context.Context, uid string) (*Profile, error)
}

// ProfileStore caches the profile of the signed-in user. The cache is
// replaced wholesale on each fetch and dropped when the session is cleared.
type ProfileStore struct {
	api     ProfileAPI
	session Session

	mu      sync.RWMutex
	profile *Profile
	epoch   uint64

	loading atomic.Bool
	group   singleflight.Group
}

func NewProfileStore(api ProfileAPI, session Session) *ProfileStore {
	s := &ProfileStore{api: api, session: session}
	session.OnCleared(s.Clear)
	return s
}

// Fetch loads the current user's profile. Without a signed-in user the cache
// is cleared and nothing is fetched. Concurrent fetches for the same user
// share one request.
func (s *ProfileStore) Fetch(ctx context.Context) error {
	uid, accessToken := s.session.UserID(), s.session.AccessToken()
	if uid == "" || accessToken == "" {
		s.Clear()
		return nil
	}

	ch := s.group.DoChan(uid, func() (any, error) {
		s.loading.Store(true)
		defer s.loading.Store(false)

		s.mu.RLock()
		epoch := s.epoch
		s.mu.RUnlock()

		profile, err := s.api.Profile(context.WithoutCancel(ctx), uid)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.epoch != epoch {
			return nil, nil
		}
		if err != nil {
			s.profile = nil
			log.Warn().Err(err).Str("user_id", uid).Msg("failed to fetch user profile")
			return nil, err
		}
		s.profile = profile
		return profile, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return fmt.Errorf("[ProfileStore.Fetch] %w", res.Err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("[ProfileStore.Fetch] %w", ctx.Err())
	}
}

// Profile returns a copy of the cached profile, or nil
func (s *ProfileStore) Profile() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// Username is the cached display name, or "" when nothing is cached
func (s *ProfileStore) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.DisplayName()
}

func (s *ProfileStore) Loading() bool {
	return s.loading.Load()
}

func (s *ProfileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = nil
	s.epoch++
}
