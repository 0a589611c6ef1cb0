// Package journal implements append-only JSON-array log stores.
package journal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Store persists entries of type T as a single JSON array in append order.
//
// ReadAll degrades to an empty sequence when the file is missing or corrupt.
// Append reads the full current sequence, appends, and rewrites the whole
// file via temp file, fsync, and rename. A per-store mutex serializes
// appends; readers see either the old or the new file.
type Store[T any] struct {
	path string
	mu   sync.Mutex
}

// New creates a store bound to the given file path. The file is created on
// first append.
func New[T any](path string) *Store[T] {
	return &Store[T]{path: path}
}

// Path returns the backing file path.
func (s *Store[T]) Path() string {
	return s.path
}

// ReadAll returns all entries in append order. A missing or undecodable
// file yields an empty slice, never an error.
func (s *Store[T]) ReadAll() []T {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var entries []T
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("journal: discarding unreadable log",
			slog.String("path", s.path), slog.String("error", err.Error()))
		return nil
	}
	return entries
}

// Append adds entry to the end of the log and rewrites the file.
func (s *Store[T]) Append(entry T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.ReadAll()
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("journal: encode: %w", err)
	}
	return s.write(data)
}

// write atomically replaces the log file: tmp file → fsync → rename.
func (s *Store[T]) write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("journal: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".journal-tmp-*")
	if err != nil {
		return fmt.Errorf("journal: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("journal: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("journal: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("journal: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("journal: rename: %w", err)
	}
	success = true
	return nil
}
