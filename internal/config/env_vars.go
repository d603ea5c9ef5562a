package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	appNameVar     = "APP_NAME"
	apiURLVar      = "CLASSROOM_API_URL"
	ssoURLVar      = "CLASSROOM_SSO_URL"
	stateDirVar    = "CLASSROOM_STATE_DIR"
	cacheDirVar    = "CLASSROOM_CACHE_DIR"
	httpTimeoutVar = "CLASSROOM_HTTP_TIMEOUT"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Classroom")
}

// GetAPIURL returns the base URL of the booking API (e.g. "http://localhost:3000")
func (EnvVars) GetAPIURL() string {
	return GetEnv(apiURLVar, "http://localhost:3000")
}

// GetSSOURL returns the single sign-on page users are sent to instead of the password login
func (EnvVars) GetSSOURL() string {
	return GetEnv(ssoURLVar, "http://localhost:8080")
}

// GetStateDir is where the persisted user id and cookies live. Defaults to ~/.classroom
func (EnvVars) GetStateDir() string {
	if dir := os.Getenv(stateDirVar); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".classroom"
	}
	return filepath.Join(home, ".classroom")
}

// GetCacheDir returns the HTTP cache directory. Empty disables the disk cache.
func (EnvVars) GetCacheDir() string {
	return GetEnv(cacheDirVar, "")
}

func (EnvVars) GetHTTPTimeout() time.Duration {
	d, err := time.ParseDuration(GetEnv(httpTimeoutVar, "30s"))
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
