// Package globalstate provides durable key-value state shared across
// activations of the extension. A Memento mirrors the editor's globalState
// API: values are JSON-compatible, and updating a key to nil removes it.
package globalstate

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Memento is a durable key-value store.
type Memento interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (any, bool)
	// Update stores value under key. A nil value deletes the key.
	Update(key string, value any) error
	// Keys returns all present keys in sorted order.
	Keys() []string
}

// Bool returns the boolean stored under key. present is false when the key is
// missing or holds a non-boolean value.
func Bool(m Memento, key string) (value, present bool) {
	v, ok := m.Get(key)
	if !ok {
		return false, false
	}

	b, ok := v.(bool)

	return b, ok
}

// String returns the string stored under key, or "" when missing.
func String(m Memento, key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}

	s, ok := v.(string)

	return s, ok
}

// Open returns a durable Memento for path. Paths ending in .db, .vscdb or
// .sqlite open a SQLite store; anything else uses a JSON file.
func Open(path string) (Memento, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".vscdb", ".sqlite":
		return OpenSQLite(path)
	default:
		return OpenFile(path)
	}
}

// Close releases resources held by m if it has any.
func Close(m Memento) error {
	if c, ok := m.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("globalstate: close: %w", err)
		}
	}

	return nil
}

// Memory is an in-process Memento. The zero value is ready to use.
type Memory struct {
	mu   sync.RWMutex
	once sync.Once
	data map[string]any
}

func (m *Memory) init() {
	m.once.Do(func() {
		m.data = make(map[string]any)
	})
}

// Get returns the value for key and whether it was found.
func (m *Memory) Get(key string) (any, bool) {
	m.init()
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]

	return v, ok
}

// Update stores value under key, or deletes key when value is nil.
func (m *Memory) Update(key string, value any) error {
	m.init()
	m.mu.Lock()
	defer m.mu.Unlock()

	if value == nil {
		delete(m.data, key)
		return nil
	}

	m.data[key] = value

	return nil
}

// Keys returns a sorted slice of all keys.
func (m *Memory) Keys() []string {
	m.init()
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Snapshot returns a shallow copy of the entire store.
func (m *Memory) Snapshot() map[string]any {
	m.init()
	m.mu.RLock()
	defer m.mu.RUnlock()

	cp := make(map[string]any, len(m.data))
	for k, v := range m.data {
		cp[k] = v
	}

	return cp
}

// replace swaps the whole contents, used by the durable stores on load.
func (m *Memory) replace(data map[string]any) {
	m.init()
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = data
}
