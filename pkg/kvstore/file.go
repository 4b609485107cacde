package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore is a Store backed by a single JSON file, loaded once at
// construction and rewritten on every mutation. It stands in for browser
// local storage when the SDK runs as a CLI or long-lived process.
type FileStore struct {
	path string

	mu   sync.RWMutex
	data map[string]string
}

// NewFileStore loads (or initializes) the store at path.
func NewFileStore(path string) (*FileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("state file path is required")
	}

	s := &FileStore{
		path: path,
		data: make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.persistLocked()
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return s.persistLocked()
}

func (s *FileStore) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read state file: %w", err)
	}
	if len(b) == 0 {
		return nil
	}

	if err := json.Unmarshal(b, &s.data); err != nil {
		return fmt.Errorf("decode state file: %w", err)
	}
	return nil
}

func (s *FileStore) persistLocked() error {
	b, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir state dir: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
