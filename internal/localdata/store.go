// Package localdata is the client-side durable key store: a single JSON
// file holding the identity tuple and the high score, the way the
// browser build kept them in localStorage.
package localdata

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

const (
	// KeyIdentity holds the persisted identity tuple.
	KeyIdentity = "pi_user"
	// KeyHighScore holds the best score seen on this device.
	KeyHighScore = "simonHighScore"
)

var ErrNotFound = errors.New("key not found")

type Store struct {
	path string
	mu   sync.Mutex
	data map[string]json.RawMessage
}

// Open loads the store from path. A missing or unparseable file is
// treated as empty; corrupt persisted state is discarded, not an error.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: map[string]json.RawMessage{}}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(b, &s.data); err != nil {
		s.data = map[string]json.RawMessage{}
	}
	return s, nil
}

// Get unmarshals the value under key into v. A stored value that no
// longer parses is discarded and reported as not found.
func (s *Store) Get(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw, v); err != nil {
		delete(s.data, key)
		_ = s.flushLocked()
		return ErrNotFound
	}
	return nil
}

func (s *Store) Put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return s.flushLocked()
}

// Delete is idempotent.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	b, err := json.Marshal(s.data)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// HighScore reads the persisted best score, 0 when absent.
func (s *Store) HighScore() int {
	var v int
	if err := s.Get(KeyHighScore, &v); err != nil {
		return 0
	}
	return v
}

func (s *Store) SetHighScore(score int) error {
	return s.Put(KeyHighScore, score)
}
