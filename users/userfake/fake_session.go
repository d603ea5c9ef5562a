package userfake

import "sync"

// FakeSession is a settable users.Session
type FakeSession struct {
	mu          sync.Mutex
	userID      string
	accessToken string
	observers   []func()
}

func NewFakeSession(userID, accessToken string) *FakeSession {
	return &FakeSession{userID: userID, accessToken: accessToken}
}

func (f *FakeSession) UserID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userID
}

func (f *FakeSession) AccessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accessToken
}

func (f *FakeSession) OnCleared(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observers = append(f.observers, fn)
}

// Clear empties the session and runs the OnCleared observers
func (f *FakeSession) Clear() {
	f.mu.Lock()
	f.userID, f.accessToken = "", ""
	observers := append([]func(){}, f.observers...)
	f.mu.Unlock()
	for _, fn := range observers {
		fn()
	}
}
