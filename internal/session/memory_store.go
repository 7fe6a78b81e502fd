package session

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is the in-process Store used by tests. It round-trips sessions
// through JSON so it behaves like the Redis store, not like shared pointers.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string][]byte{}}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return &Session{Cart: map[int64]int{}}, nil
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	if sess.Cart == nil {
		sess.Cart = map[int64]int{}
	}
	return &sess, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.sessions[id] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}
