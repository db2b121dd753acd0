package globalstate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/bytedance/sonic"
)

// File is a Memento persisted as a single JSON object on disk. Every Update
// rewrites the file through a temp file and rename.
type File struct {
	mu    sync.Mutex // serialises writes
	cache Memory
	path  string
}

// OpenFile loads the JSON state file at path. A missing or empty file yields
// an empty store.
func OpenFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("globalstate: resolve path: %w", err)
	}

	f := &File{path: abs}
	if err := f.load(); err != nil {
		return nil, err
	}

	return f, nil
}

// Path returns the absolute path of the backing file.
func (f *File) Path() string { return f.path }

// Get returns the value for key and whether it was found.
func (f *File) Get(key string) (any, bool) { return f.cache.Get(key) }

// Keys returns a sorted slice of all keys.
func (f *File) Keys() []string { return f.cache.Keys() }

// Update stores value under key and persists the whole state.
func (f *File) Update(key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.cache.Update(key, value); err != nil {
		return err
	}

	return f.persist(f.cache.Snapshot())
}

func (f *File) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("globalstate: read file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	values := make(map[string]any)
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("globalstate: parse file: %w", err)
	}

	f.cache.replace(values)

	return nil
}

func (f *File) persist(values map[string]any) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("globalstate: marshal: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("globalstate: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("globalstate: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName) //nolint:gosec // tmpName comes from os.CreateTemp in a known directory
		return fmt.Errorf("globalstate: write temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) //nolint:gosec // tmpName comes from os.CreateTemp in a known directory
		return fmt.Errorf("globalstate: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil { //nolint:gosec // tmpName comes from os.CreateTemp in a known directory
		_ = os.Remove(tmpName) //nolint:gosec // tmpName comes from os.CreateTemp in a known directory
		return fmt.Errorf("globalstate: rename temp file: %w", err)
	}

	return nil
}
