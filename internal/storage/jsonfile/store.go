package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/julianstephens/smartgrow/internal/storage/kv"
)

type document struct {
	Version int                        `json:"version"`
	Entries map[string]json.RawMessage `json:"entries"`
}

// Store keeps every key in a single JSON document on disk.
type Store struct {
	path string
	mu   sync.RWMutex
	doc  *document
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-initialising keeps existing data
	if _, err := os.Stat(s.path); err == nil {
		return s.loadLocked()
	}

	s.doc = &document{
		Version: 1,
		Entries: make(map[string]json.RawMessage),
	}
	return s.saveLocked()
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'smartgrow init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Entries == nil {
		doc.Entries = make(map[string]json.RawMessage)
	}
	s.doc = doc
	return nil
}

func (s *Store) Close() error {
	return nil
}

// saveLocked writes to a temp file and renames it so readers never see a
// partial document. The document is compact so entries read back exactly as
// they were stored.
func (s *Store) saveLocked() error {
	data, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *Store) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, kv.ErrNotLoaded
	}
	v, ok := s.doc.Entries[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return bytes.Clone(v), nil
}

// Put stores the compact form of value.
func (s *Store) Put(key string, value []byte) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return fmt.Errorf("value for %s is not valid JSON: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return kv.ErrNotLoaded
	}
	s.doc.Entries[key] = json.RawMessage(buf.Bytes())
	return s.saveLocked()
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return kv.ErrNotLoaded
	}
	if _, ok := s.doc.Entries[key]; !ok {
		return nil
	}
	delete(s.doc.Entries, key)
	return s.saveLocked()
}

func (s *Store) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, kv.ErrNotLoaded
	}
	var keys []string
	for k := range s.doc.Entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}
