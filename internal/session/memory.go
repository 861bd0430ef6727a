package session

import (
	"context"
	"sync"
	"time"

	"monipersonal/server/internal/crypto"
)

// Memory is the in-process session table. Entries expire lazily: an expired
// entry is deleted the first time it is looked up, there is no background
// sweep. All entries are lost on process restart.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]Entry),
	}
}

// WithClock replaces the clock, for simulated-time tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Create(_ context.Context, role string, subjectID int64) (string, error) {
	token, err := crypto.NewSessionToken()
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.entries[token] = Entry{Role: role, SubjectID: subjectID, CreatedAt: m.now().UTC()}
	m.mu.Unlock()
	return token, nil
}

func (m *Memory) Resolve(_ context.Context, token string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[token]
	if !ok {
		return nil, ErrNotFound
	}
	if m.now().Sub(entry.CreatedAt) > m.ttl {
		delete(m.entries, token)
		return nil, ErrNotFound
	}
	return &entry, nil
}

func (m *Memory) Invalidate(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.entries, token)
	m.mu.Unlock()
	return nil
}
