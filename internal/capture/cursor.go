// Package capture turns the new suffix of a session log into a bounded
// text payload, choosing between signal-scoped and full capture.
package capture

import (
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

// CursorStore persists the index of the last event already captured,
// keyed by project. Implementations substitute freely in tests; nothing
// in the pipeline assumes a particular backing.
type CursorStore interface {
	Get(project string) (int, error)
	Set(project string, cursor int) error
}

// FileCursorStore keeps all cursors in one JSON file using whole-file
// read-modify-write. No locking: concurrent writers on the same file are
// last-write-wins, an accepted limitation.
type FileCursorStore struct {
	path string
}

// NewFileCursorStore returns a store backed by the file at path.
func NewFileCursorStore(path string) *FileCursorStore {
	return &FileCursorStore{path: path}
}

// Get returns the cursor for project, zero when absent or unreadable.
func (s *FileCursorStore) Get(project string) (int, error) {
	return s.read()[project], nil
}

// Set records the cursor for project.
func (s *FileCursorStore) Set(project string, cursor int) error {
	cursors := s.read()
	cursors[project] = cursor

	data, err := json.Marshal(cursors)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *FileCursorStore) read() map[string]int {
	cursors := map[string]int{}
	if data, err := os.ReadFile(s.path); err == nil {
		_ = json.Unmarshal(data, &cursors)
	}
	return cursors
}

// MemoryCursorStore is an in-memory CursorStore for tests.
type MemoryCursorStore struct {
	mu      sync.Mutex
	cursors map[string]int
}

// NewMemoryCursorStore returns an empty in-memory store.
func NewMemoryCursorStore() *MemoryCursorStore {
	return &MemoryCursorStore{cursors: map[string]int{}}
}

// Get returns the cursor for project, zero when absent.
func (s *MemoryCursorStore) Get(project string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursors[project], nil
}

// Set records the cursor for project.
func (s *MemoryCursorStore) Set(project string, cursor int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[project] = cursor
	return nil
}
