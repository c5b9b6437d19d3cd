package scene

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/parodyband/maya-batch-group-exporter/internal/naming"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS objects (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS sets (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS set_members (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	set_id INTEGER NOT NULL REFERENCES sets(id) ON DELETE CASCADE,
	ref    TEXT NOT NULL,
	object TEXT NOT NULL,
	UNIQUE(set_id, object)
);
CREATE TABLE IF NOT EXISTS selection (
	id  INTEGER PRIMARY KEY AUTOINCREMENT,
	ref TEXT NOT NULL
);
`

// SQLiteStore is a Store persisted in a standalone scene database. It lets
// the exporter run against a scene file without a live host application.
//
// set_members keeps both the raw reference (component annotations intact)
// and the stripped object name; membership uniqueness and removal are
// resolved against the stripped form, mirroring how the host store treats
// the two forms as interchangeable.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	isolated map[string]bool
}

// OpenSQLiteStore opens (creating if needed) a scene database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize scene schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path, isolated: make(map[string]bool)}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AddObject registers a plain scene object.
func (s *SQLiteStore) AddObject(name string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO objects (name) VALUES (?)", name)
	if err != nil {
		return fmt.Errorf("failed to add object: %w", err)
	}
	return nil
}

func (s *SQLiteStore) setID(name string) (int64, error) {
	var id int64
	err := s.db.QueryRow("SELECT id FROM sets WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: set %s", ErrNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up set: %w", err)
	}
	return id, nil
}

// Exists reports whether an object or set with the given name exists.
func (s *SQLiteStore) Exists(name string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM (SELECT 1 FROM sets WHERE name = ? UNION ALL SELECT 1 FROM objects WHERE name = ?)",
		name, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return n > 0, nil
}

// CreateSet materializes an empty object set.
func (s *SQLiteStore) CreateSet(name string) (string, error) {
	exists, err := s.Exists(name)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: set %s", ErrExists, name)
	}
	if _, err := s.db.Exec("INSERT INTO sets (name) VALUES (?)", name); err != nil {
		return "", fmt.Errorf("failed to create set: %w", err)
	}
	return name, nil
}

// DeleteSet removes a set and its membership rows.
func (s *SQLiteStore) DeleteSet(name string) error {
	res, err := s.db.Exec("DELETE FROM sets WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete set: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete set: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: set %s", ErrNotFound, name)
	}
	return nil
}

// RenameSet renames a set in place, keeping its rowid and therefore its
// enumeration slot.
func (s *SQLiteStore) RenameSet(oldName, newName string) (string, error) {
	if oldName == newName {
		if _, err := s.setID(oldName); err != nil {
			return "", err
		}
		return newName, nil
	}
	exists, err := s.Exists(newName)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: set %s", ErrExists, newName)
	}
	res, err := s.db.Exec("UPDATE sets SET name = ? WHERE name = ?", newName, oldName)
	if err != nil {
		return "", fmt.Errorf("failed to rename set: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to rename set: %w", err)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: set %s", ErrNotFound, oldName)
	}
	return newName, nil
}

// ListSets returns set names starting with prefix, in creation order.
// LIKE would treat _ in the prefix as a wildcard, so compare the leading
// substring instead.
func (s *SQLiteStore) ListSets(prefix string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT name FROM sets WHERE substr(name, 1, length(?1)) = ?1 ORDER BY id", prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list sets: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan set name: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// SetMembers returns the raw member references of a set in insertion order.
func (s *SQLiteStore) SetMembers(name string) ([]string, error) {
	id, err := s.setID(name)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		"SELECT ref FROM set_members WHERE set_id = ? ORDER BY id", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// AddMembers adds object references to a set, skipping existing members.
func (s *SQLiteStore) AddMembers(name string, objects []string) error {
	id, err := s.setID(name)
	if err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, obj := range objects {
		_, err := tx.Exec(
			"INSERT OR IGNORE INTO set_members (set_id, ref, object) VALUES (?, ?, ?)",
			id, obj, naming.StripComponent(obj))
		if err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}
	}
	return tx.Commit()
}

// RemoveMembers removes object references from a set, matching with
// component annotations stripped.
func (s *SQLiteStore) RemoveMembers(name string, objects []string) error {
	id, err := s.setID(name)
	if err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, obj := range objects {
		_, err := tx.Exec(
			"DELETE FROM set_members WHERE set_id = ? AND object = ?",
			id, naming.StripComponent(obj))
		if err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
	}
	return tx.Commit()
}

// Selection returns the current selection in insertion order.
func (s *SQLiteStore) Selection() ([]string, error) {
	rows, err := s.db.Query("SELECT ref FROM selection ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query selection: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// SetSelection replaces the current selection.
func (s *SQLiteStore) SetSelection(objects []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM selection"); err != nil {
		return fmt.Errorf("failed to clear selection: %w", err)
	}
	for _, obj := range objects {
		if _, err := tx.Exec("INSERT INTO selection (ref) VALUES (?)", obj); err != nil {
			return fmt.Errorf("failed to set selection: %w", err)
		}
	}
	return tx.Commit()
}

// ClearSelection empties the current selection.
func (s *SQLiteStore) ClearSelection() error {
	if _, err := s.db.Exec("DELETE FROM selection"); err != nil {
		return fmt.Errorf("failed to clear selection: %w", err)
	}
	return nil
}

// Isolate records viewport isolation state for a panel. Isolation is a
// per-process display concern, so it lives in memory rather than the
// database.
func (s *SQLiteStore) Isolate(panel string, on bool, objects []string) error {
	if on {
		s.isolated[panel] = true
	} else {
		delete(s.isolated, panel)
	}
	return nil
}

// SceneName returns the scene database path.
func (s *SQLiteStore) SceneName() string {
	return s.path
}
