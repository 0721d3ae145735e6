package storage

import (
	"context"
	"sync"

	"github.com/angelmondragon/storefront-client/pkg/broadcast"
	"github.com/google/uuid"
)

// MemoryBackend is process-local storage that several handles can share,
// mirroring tabs of one browser sharing localStorage.
type MemoryBackend struct {
	mu     sync.RWMutex
	data   map[string]string
	events *broadcast.Subject[Event]
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data:   map[string]string{},
		events: broadcast.NewSubject[Event](),
	}
}

// Open returns a new handle with its own origin.
func (b *MemoryBackend) Open() *Memory {
	return &Memory{backend: b, origin: uuid.NewString()}
}

// Memory is one handle on a MemoryBackend.
type Memory struct {
	backend *MemoryBackend
	origin  string
}

// NewMemory returns a handle on a fresh, unshared backend.
func NewMemory() *Memory {
	return NewMemoryBackend().Open()
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.backend.mu.RLock()
	defer m.backend.mu.RUnlock()
	value, ok := m.backend.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.backend.mu.Lock()
	m.backend.data[key] = value
	m.backend.mu.Unlock()

	m.backend.events.Publish(Event{Origin: m.origin, Key: key})
	return nil
}

func (m *Memory) Remove(_ context.Context, keys ...string) error {
	m.backend.mu.Lock()
	for _, key := range keys {
		delete(m.backend.data, key)
	}
	m.backend.mu.Unlock()

	for _, key := range keys {
		m.backend.events.Publish(Event{Origin: m.origin, Key: key})
	}
	return nil
}

func (m *Memory) Watch(fn func(key string)) func() {
	if fn == nil {
		return func() {}
	}
	return m.backend.events.Subscribe(func(ev Event) {
		if ev.Origin == m.origin {
			return
		}
		fn(ev.Key)
	})
}

func (m *Memory) Close() error {
	return nil
}
