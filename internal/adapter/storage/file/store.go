// Package file persists the book as one JSON document on disk. Writes go
// through a temp file and rename so a crash mid-write never leaves a torn
// snapshot behind.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store implements usecase.BucketStore on a single JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a file store at the given path. The file is created on the
// first save.
func New(path string) *Store {
	return &Store{path: path}
}

// Save writes all buckets as one document, atomically replacing the previous
// snapshot.
func (s *Store) Save(ctx context.Context, buckets map[string]json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(buckets)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot. A missing file returns an empty bucket map, not
// an error; a fresh deployment starts from a blank book.
func (s *Store) Load(ctx context.Context) (map[string]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var buckets map[string]json.RawMessage
	if err := json.Unmarshal(data, &buckets); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return buckets, nil
}
