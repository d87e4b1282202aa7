// Package kv defines the byte-oriented backend contract that every storage
// medium implements. Collections are stored as one JSON document per key.
package kv

import "errors"

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// ErrNotLoaded is returned when a backend is used before Init or Load.
var ErrNotLoaded = errors.New("storage not loaded")

type Backend interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	// Keys lists stored keys sharing prefix, sorted ascending.
	Keys(prefix string) ([]string, error)

	// GetConfigPath returns a printable, non-sensitive location.
	GetConfigPath() string
}
