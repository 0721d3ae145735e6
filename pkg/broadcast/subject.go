// Package broadcast provides an in-process publish/subscribe channel over a
// single logical value.
package broadcast

import (
	"sync"
)

// Subject fans a published value out to every registered listener.
// Listeners run synchronously on the publishing goroutine, in registration order.
type Subject[T any] struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[uint64]func(T)
	order     []uint64
}

func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{listeners: map[uint64]func(T){}}
}

// Subscribe registers fn and returns an idempotent unsubscribe func.
func (s *Subject[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	if s.listeners == nil {
		s.listeners = map[uint64]func(T){}
	}
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Subject[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, id)
	for i, candidate := range s.order {
		if candidate == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

// Publish delivers value to a snapshot of the current listeners.
func (s *Subject[T]) Publish(value T) {
	s.mu.RLock()
	snapshot := make([]func(T), 0, len(s.order))
	for _, id := range s.order {
		snapshot = append(snapshot, s.listeners[id])
	}
	s.mu.RUnlock()

	for _, fn := range snapshot {
		fn(value)
	}
}

// Len reports the number of active listeners.
func (s *Subject[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
