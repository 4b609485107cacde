// Package kvstore provides the small key-value store the client SDK uses for
// session tokens, mock-mode documents and cached site settings. Values are
// plain strings (usually JSON), mirroring the web client's storage model.
package kvstore

import "sync"

// Store is the persistence contract for client-side state.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryStore is an in-memory Store, used in tests and as the default when no
// state file is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
