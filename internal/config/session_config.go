package config

import "time"

type SessionConfig interface {
	GetRefreshSafetyBuffer() time.Duration
	GetMinRefreshDelay() time.Duration
	GetDefaultRefreshDelay() time.Duration
	GetUserIDStorageKey() string
}

type Session struct{}

var _ SessionConfig = Session{}

// GetRefreshSafetyBuffer is how long before expiry the access token is refreshed
func (Session) GetRefreshSafetyBuffer() time.Duration {
	return 60 * time.Second
}

func (Session) GetMinRefreshDelay() time.Duration {
	return 10 * time.Second
}

// GetDefaultRefreshDelay is used when the token carries no readable expiry
func (Session) GetDefaultRefreshDelay() time.Duration {
	return 9 * time.Minute
}

func (Session) GetUserIDStorageKey() string {
	return "uid"
}
