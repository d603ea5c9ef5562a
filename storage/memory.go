package storage

import "sync"

var _ Repo = (*MemoryRepo)(nil)

// MemoryRepo keeps state for the lifetime of the process only
type MemoryRepo struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{values: make(map[string]string)}
}

func (r *MemoryRepo) Get(key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok
}

func (r *MemoryRepo) Set(key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *MemoryRepo) Remove(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}
