package config

import (
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	SessionConfig
}

type EnvConfig interface {
	GetAppName() string
	GetAPIURL() string
	GetSSOURL() string
	GetStateDir() string
	GetCacheDir() string
	GetHTTPTimeout() time.Duration
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Session
}

// New returns the environment backed configuration. Values from a .env file in
// the working directory are loaded first; variables already set win.
func New() Config {
	_ = godotenv.Load()
	return mainConfig{}
}

// NewFromFiles is New with explicit .env files. Missing files are an error.
func NewFromFiles(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		return nil, err
	}
	return mainConfig{}, nil
}
