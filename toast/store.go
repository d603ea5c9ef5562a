package toast

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Severity of a toast
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Info    Severity = "info"
	Warning Severity = "warning"
)

// DefaultDuration is how long ShowDefault keeps a toast
const DefaultDuration = 3 * time.Second

func (s Severity) Valid() bool {
	switch s {
	case Success, Error, Info, Warning:
		return true
	}
	return false
}

// ID identifies a toast; ids are time ordered
type ID string

type Toast struct {
	ID        ID
	Message   string
	Severity  Severity
	CreatedAt time.Time
}

// Timer is the handle of a pending automatic removal
type Timer interface {
	Stop() bool
}

// Store is an ordered queue of notifications with optional expiry
type Store struct {
	mu     sync.Mutex
	toasts []Toast
	timers map[ID]Timer
	closed bool

	afterFunc func(time.Duration, func()) Timer
	nowFunc   func() time.Time
	onChange  func([]Toast)
}

type StoreOption func(*Store)

// WithOnChange registers fn to receive a snapshot after every change
func WithOnChange(fn func([]Toast)) StoreOption {
	return func(s *Store) {
		s.onChange = fn
	}
}

// WithAfterFunc replaces time.AfterFunc for scheduling removals
func WithAfterFunc(afterFunc func(time.Duration, func()) Timer) StoreOption {
	return func(s *Store) {
		s.afterFunc = afterFunc
	}
}

func WithNowFunc(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowFunc = now
	}
}

func NewStore(options ...StoreOption) *Store {
	s := &Store{
		timers:  make(map[ID]Timer),
		nowFunc: time.Now,
	}
	s.afterFunc = func(d time.Duration, f func()) Timer {
		return time.AfterFunc(d, f)
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Show appends a toast. A positive duration removes it automatically after
// that long; zero keeps it until Remove. Unknown severities fall back to Info.
func (s *Store) Show(message string, severity Severity, duration time.Duration) ID {
	if !severity.Valid() {
		severity = Info
	}
	id := newID()

	s.mu.Lock()
	s.toasts = append(s.toasts, Toast{ID: id, Message: message, Severity: severity, CreatedAt: s.nowFunc()})
	if duration > 0 && !s.closed {
		s.timers[id] = s.afterFunc(duration, func() { s.Remove(id) })
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.changed(snapshot)
	return id
}

// ShowDefault shows an info toast for DefaultDuration
func (s *Store) ShowDefault(message string) ID {
	return s.Show(message, Info, DefaultDuration)
}

// Remove deletes the toast with id; unknown ids are ignored
func (s *Store) Remove(id ID) {
	s.mu.Lock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	i := slices.IndexFunc(s.toasts, func(t Toast) bool { return t.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.toasts = slices.Delete(s.toasts, i, i+1)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.changed(snapshot)
}

// List returns the toasts in the order they were shown
func (s *Store) List() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close stops pending removals. Toasts already shown stay listed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *Store) snapshotLocked() []Toast {
	return slices.Clone(s.toasts)
}

func (s *Store) changed(snapshot []Toast) {
	if s.onChange != nil {
		s.onChange(snapshot)
	}
}

func newID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		log.Warn().Err(err).Msg("falling back to a random toast id")
		return ID(uuid.NewString())
	}
	return ID(id.String())
}
