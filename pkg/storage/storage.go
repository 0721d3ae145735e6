// Package storage persists small client-side values (credential, derived
// identity, cached cart) and announces writes made by other execution
// contexts sharing the same backing storage.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is a string key/value store. Writers publish the complete value in a
// single call; watchers are notified only after the write is durable.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
	// Watch registers fn for writes made through other handles on the same
	// backing storage. Writes through this handle are not reported.
	Watch(fn func(key string)) (unsubscribe func())
	Close() error
}

// Event describes one write on a shared backing storage.
type Event struct {
	Origin string `json:"origin"`
	Key    string `json:"key"`
}
