// Package storage persists serialized projects behind a small key/value interface.
// Each backend is its own type; the router picks one at startup.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store is the key/value capability the project service round-trips records through.
type Store interface {
	// List returns the keys starting with prefix, sorted. An empty prefix lists everything.
	List(ctx context.Context, prefix string) ([]string, error)
	// Get returns the value under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set inserts or replaces the value under key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report connectivity for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	ErrNotFound       = errors.New("Key not found")
	ErrInvalidValue   = errors.New("Value must be a JSON document")
	ErrUnknownBackend = errors.New("Unknown storage backend")
)

// Backend names accepted by STORAGE_BACKEND.
const (
	BackendRedis    = "redis"
	BackendDatabase = "database"
	BackendFile     = "file"
)

// ParseBackend normalizes a configured backend name.
func ParseBackend(name string) (string, error) {
	switch b := strings.ToLower(strings.TrimSpace(name)); b {
	case BackendRedis, BackendDatabase, BackendFile:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}
