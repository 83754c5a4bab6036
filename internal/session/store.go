// Package session provides the opaque key-value credential store and the
// per-call session context the API services read tokens from.
package session

import (
	"fmt"
	"strings"
	"sync"
)

// TokenKey is the fixed key the bearer token is persisted under.
const TokenKey = "authToken"

// Store is a simple string key-value persistence contract.
type Store interface {
	Close() error
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", "none", "disabled", "memory":
		return NewMemoryStore(), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt session store requires a path")
		}
		return openBolt(path)
	default:
		return nil, fmt.Errorf("unsupported session store type %q", typ)
	}
}

// MemoryStore is a volatile in-process store for tests and ephemeral sessions.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
