// Package manifest is the durable local ledger of every remote asset this
// tool has ever created. It survives process restarts so a later run (or a
// run after a crash) can still find and delete assets it owns.
//
// Each mutation is a single SQL statement, so SQLite journaling makes a
// register/unregister either fully durable or absent; there is no partial
// end state. Concurrent invocations of the tool are out of scope, but
// concurrent registrations from upload tasks within one process are
// serialized by an internal mutex.
package manifest

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry records one remote asset the tool believes it owns.
type Entry struct {
	RemoteName   string
	DisplayName  string
	SessionID    string
	RegisteredAt time.Time
}

// Manifest is the SQLite-backed asset ledger.
type Manifest struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// Open initializes the manifest database at the given path, creating the
// schema on first use.
func Open(path string) (*Manifest, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal_mode: %w", err)
	}

	m := &Manifest{db: db, dbPath: path}
	if err := m.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

// initialize creates the assets table.
func (m *Manifest) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS assets (
		remote_name TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		session_id TEXT NOT NULL,
		registered_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_assets_session ON assets(session_id);
	`
	if _, err := m.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize manifest schema: %w", err)
	}
	return nil
}

// Register durably records an asset as owned. Registering the same remote
// name twice is an error: remote names are server-unique, so a collision
// means bookkeeping went wrong upstream.
func (m *Manifest) Register(e Entry) error {
	if e.RemoteName == "" {
		return fmt.Errorf("manifest entry requires a remote name")
	}
	if e.RegisteredAt.IsZero() {
		e.RegisteredAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.db.Exec(
		`INSERT INTO assets (remote_name, display_name, session_id, registered_at) VALUES (?, ?, ?, ?)`,
		e.RemoteName, e.DisplayName, e.SessionID, e.RegisteredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to register %s: %w", e.RemoteName, err)
	}
	return nil
}

// Unregister removes an asset from the ledger. Callers must only do this
// after the remote delete succeeded.
func (m *Manifest) Unregister(remoteName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, err := m.db.Exec(`DELETE FROM assets WHERE remote_name = ?`, remoteName)
	if err != nil {
		return fmt.Errorf("failed to unregister %s: %w", remoteName, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no manifest entry for %s", remoteName)
	}
	return nil
}

// All returns every tracked entry, oldest first.
func (m *Manifest) All() ([]Entry, error) {
	return m.query(`SELECT remote_name, display_name, session_id, registered_at
		FROM assets ORDER BY registered_at, remote_name`)
}

// ForSession returns the entries created by one invocation, oldest first.
func (m *Manifest) ForSession(sessionID string) ([]Entry, error) {
	return m.query(`SELECT remote_name, display_name, session_id, registered_at
		FROM assets WHERE session_id = ? ORDER BY registered_at, remote_name`, sessionID)
}

func (m *Manifest) query(q string, args ...interface{}) ([]Entry, error) {
	rows, err := m.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("manifest query failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.RemoteName, &e.DisplayName, &e.SessionID, &e.RegisteredAt); err != nil {
			return nil, fmt.Errorf("manifest scan failed: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("manifest iteration failed: %w", err)
	}
	return entries, nil
}

// Close releases the underlying database handle.
func (m *Manifest) Close() error {
	return m.db.Close()
}
