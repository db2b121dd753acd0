package globalstate

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/bytedance/sonic"
	_ "modernc.org/sqlite"
)

const createItemTable = `CREATE TABLE IF NOT EXISTS ItemTable (key TEXT UNIQUE ON CONFLICT REPLACE, value BLOB)`

// SQLite is a Memento stored in an ItemTable, the layout editors use for
// their state database. All rows are loaded on open and Updates write
// through.
type SQLite struct {
	mu    sync.Mutex
	cache Memory
	db    *sql.DB
	path  string
}

// OpenSQLite opens or creates the state database at path.
func OpenSQLite(path string) (*SQLite, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("globalstate: resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return nil, fmt.Errorf("globalstate: create dir: %w", err)
	}

	db, err := sql.Open("sqlite", abs)
	if err != nil {
		return nil, fmt.Errorf("globalstate: open database: %w", err)
	}

	// A single connection keeps writes ordered.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createItemTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("globalstate: create table: %w", err)
	}

	s := &SQLite{db: db, path: abs}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the absolute path of the database file.
func (s *SQLite) Path() string { return s.path }

// Get returns the value for key and whether it was found.
func (s *SQLite) Get(key string) (any, bool) { return s.cache.Get(key) }

// Keys returns a sorted slice of all keys.
func (s *SQLite) Keys() []string { return s.cache.Keys() }

// Update stores value under key, or deletes the row when value is nil.
func (s *SQLite) Update(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == nil {
		if _, err := s.db.Exec(`DELETE FROM ItemTable WHERE key = ?`, key); err != nil {
			return fmt.Errorf("globalstate: delete %q: %w", key, err)
		}

		return s.cache.Update(key, nil)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("globalstate: marshal %q: %w", key, err)
	}

	if _, err := s.db.Exec(`INSERT INTO ItemTable (key, value) VALUES (?, ?)`, key, data); err != nil {
		return fmt.Errorf("globalstate: write %q: %w", key, err)
	}

	return s.cache.Update(key, value)
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) load() error {
	rows, err := s.db.Query(`SELECT key, value FROM ItemTable`)
	if err != nil {
		return fmt.Errorf("globalstate: read items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	values := make(map[string]any)
	for rows.Next() {
		var (
			key string
			raw []byte
		)
		if err := rows.Scan(&key, &raw); err != nil {
			return fmt.Errorf("globalstate: scan item: %w", err)
		}

		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			// Editors store some rows as bare strings rather than JSON.
			v = string(raw)
		}
		values[key] = v
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("globalstate: read items: %w", err)
	}

	s.cache.replace(values)

	return nil
}
