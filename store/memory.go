package store

import "sync"

// Memory is an in-process Store for tests and for sessions running
// without a persistent store directory.
type Memory struct {
	mu       sync.Mutex
	payloads map[string]*Payload
}

func NewMemory() *Memory {
	return &Memory{payloads: map[string]*Payload{}}
}

func (m *Memory) Put(key string, p *Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads[key] = p
	return nil
}

func (m *Memory) Get(key string) (*Payload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payloads[key]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *Memory) Clear(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.payloads, key)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
