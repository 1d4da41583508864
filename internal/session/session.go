// Package session persists the signed-in console user between runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parkandride/parkride/internal/model"
)

// FileName is the single key the store writes under its base directory.
const FileName = "session.json"

// BaseDir returns the root data directory (~/.parkride).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".parkride"), nil
}

// Store keeps one serialized user in a JSON file.
type Store struct {
	path string
}

// NewStore returns a store writing to base/session.json.
func NewStore(base string) *Store {
	return &Store{path: filepath.Join(base, FileName)}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load returns the persisted user, or nil when none is stored. A corrupt
// record is removed and reported so the caller starts signed out.
func (s *Store) Load() (*model.User, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session error reading %s: %w", s.path, err)
	}

	var u model.User
	if err := json.Unmarshal(data, &u); err != nil || u.Username == "" {
		_ = os.Remove(s.path)
		if err == nil {
			err = errors.New("missing username")
		}
		return nil, fmt.Errorf("corrupt session in %s (discarded): %w", s.path, err)
	}
	return &u, nil
}

// Save atomically replaces the stored user. A nil user clears the store.
func (s *Store) Save(u *model.User) error {
	if u == nil {
		return s.Clear()
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return fmt.Errorf("session error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("session error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("session error renaming temp file: %w", err)
	}
	return nil
}

// Clear removes the stored user. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session error removing %s: %w", s.path, err)
	}
	return nil
}
