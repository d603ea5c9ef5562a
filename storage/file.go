package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

const stateFileName = "state.json"

var _ Repo = (*FileRepo)(nil)

// stateFile is the on-disk layout of the client state
type stateFile struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

// FileRepo persists values as JSON in <dir>/state.json. Every write replaces
// the file atomically so a crash never leaves a truncated state file.
type FileRepo struct {
	path   string
	mu     sync.RWMutex
	values map[string]string
}

// NewFileRepo opens (or creates) the state file inside dir
func NewFileRepo(dir string) (*FileRepo, error) {
	if dir == "" {
		return nil, errors.New("[NewFileRepo] state directory is required")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("[NewFileRepo] failed to create state directory: %w", err)
	}

	r := &FileRepo{
		path:   filepath.Join(dir, stateFileName),
		values: make(map[string]string),
	}
	if err := r.load(); err != nil {
		return nil, err
	}

	log.Debug().Str("path", r.path).Msg("state store initialized")
	return r, nil
}

func (r *FileRepo) Get(key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok
}

func (r *FileRepo) Set(key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous, existed := r.values[key]
	r.values[key] = value
	if err := r.save(); err != nil {
		if existed {
			r.values[key] = previous
		} else {
			delete(r.values, key)
		}
		return err
	}
	return nil
}

func (r *FileRepo) Remove(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, existed := r.values[key]
	if !existed {
		return nil
	}
	delete(r.values, key)
	if err := r.save(); err != nil {
		r.values[key] = previous
		return err
	}
	return nil
}

func (r *FileRepo) load() error {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt state file only costs the user a fresh login
		log.Warn().Err(err).Str("path", r.path).Msg("ignoring unreadable state file")
		return nil
	}
	if state.Values != nil {
		r.values = state.Values
	}
	return nil
}

func (r *FileRepo) save() error {
	data, err := json.MarshalIndent(stateFile{Version: 1, Values: r.values}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tempPath := r.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}

	if err := os.Rename(tempPath, r.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}
