package storage

import "errors"

var ErrInvalidKey = errors.New("storage key is required")

// Repo is a small persistent key/value store for client state that must
// survive restarts (the signed-in user id, API cookies). Secrets such as the
// access token are never written to it.
type Repo interface {
	// Get returns the stored value and whether it exists
	Get(key string) (string, bool)

	// Set stores the value under key, replacing any previous value
	Set(key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
}
