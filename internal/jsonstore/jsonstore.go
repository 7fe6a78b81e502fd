// Package jsonstore reads and writes the legacy flat-file collections
// (one JSON array of records per file). The request path no longer touches
// these files; they survive as the seed/export format consumed by cmd/seed.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCorrupt marks a collection file that exists but cannot be decoded.
// Callers must be able to tell corruption apart from "no data yet", so this
// is never folded into an empty result.
var ErrCorrupt = errors.New("jsonstore: corrupt collection")

// Store resolves collection names to files inside a single data directory.
type Store struct {
	Dir string
}

func New(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.Dir, collection+".json")
}

// Load reads the named collection into out (a pointer to a slice).
// A missing file is reported as fs.ErrNotExist; a file that exists but does
// not parse is reported as ErrCorrupt wrapping the decode error.
func (s *Store) Load(collection string, out any) error {
	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		return fmt.Errorf("load %s: %w", collection, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("load %s: %w: %v", collection, ErrCorrupt, err)
	}
	return nil
}

// Save overwrites the named collection with records. The write goes through
// a temp file and rename so a crash mid-save cannot leave a half-written
// collection behind.
func (s *Store) Save(collection string, records any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}

	tmp, err := os.CreateTemp(s.Dir, collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}

	if err := os.Rename(tmp.Name(), s.path(collection)); err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}
	return nil
}
