package memo

import (
	"context"
	"sync"
)

// Memory is an in-process store.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, text string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}
	sig, ok := m.data[Key(text)]
	return sig, ok, nil
}

func (m *Memory) Put(_ context.Context, text, signature string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.data[Key(text)] = signature
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.data = nil
	return nil
}
