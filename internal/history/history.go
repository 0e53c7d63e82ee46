// Package history keeps the bounded recent-generation log. It is the Go
// counterpart of the client's local-storage entry: one keyed blob, newest
// first, read-modify-written synchronously, and always treated as
// best-effort: a missing or corrupt file is an empty history, never an
// error surfaced to the user.
package history

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/giftgenius/giftgenius-api/internal/models"
)

// MaxEntries bounds the log; appending beyond it evicts the oldest entry.
const MaxEntries = 10

const (
	filePerm = 0o600
	dirPerm  = 0o700
)

type Store struct {
	mu    sync.Mutex
	path  string
	items []models.HistoryItem
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted list into the in-memory mirror and returns it.
// Call once at startup; corrupt or absent state degrades to empty.
func (s *Store) Load() []models.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var items []models.HistoryItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	if len(items) > MaxEntries {
		items = items[:MaxEntries]
	}
	s.items = items
	return s.snapshot()
}

// Items returns a copy of the current list, newest first.
func (s *Store) Items() []models.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Append prepends the item, truncates to MaxEntries and persists.
func (s *Store) Append(item models.HistoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.HistoryItem, 0, len(s.items)+1)
	items = append(items, item)
	items = append(items, s.items...)
	if len(items) > MaxEntries {
		items = items[:MaxEntries]
	}
	s.items = items
	return s.persist()
}

// Clear empties both the persisted list and the in-memory mirror. Clearing
// an already-empty store is a no-op that still succeeds.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return s.persist()
}

func (s *Store) snapshot() []models.HistoryItem {
	out := make([]models.HistoryItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return err
	}
	raw, err := json.Marshal(s.items)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, filePerm)
}
