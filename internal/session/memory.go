package session

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	uid     string
	expires time.Time
}

// Memory is a single-process Registry. Sessions do not survive a restart.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]entry
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]entry), now: time.Now}
}

var _ Registry = (*Memory)(nil)

func (m *Memory) Create(_ context.Context, sid, uid string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sid] = entry{uid: uid, expires: m.now().Add(ttl)}
	return nil
}

func (m *Memory) Active(_ context.Context, sid string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[sid]
	if !ok {
		return "", ErrRevoked
	}
	if !m.now().Before(e.expires) {
		delete(m.sessions, sid)
		return "", ErrRevoked
	}
	return e.uid, nil
}

func (m *Memory) Revoke(_ context.Context, sid string) error {
	m.mu.Lock()
	delete(m.sessions, sid)
	m.mu.Unlock()
	return nil
}
