// Package store persists precomputed reference entries in SQLite so later
// conversion runs can reuse them.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/swiftlang/swift-docc-sub005/internal/precompute"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
)

// ErrNotFound is returned by Get when no entry exists for an identifier.
var ErrNotFound = errors.New("reference entry not found")

// MetaBundle is the meta key holding the identifier of the bundle whose
// references the store holds.
const MetaBundle = "bundle_id"

type SQLite struct {
	conn *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dsn := "file:" + path + "?_txlock=immediate&_busy_timeout=5000&_journal_mode=WAL"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLite{conn: conn}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}

func (s *SQLite) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reference_entries (
			identifier TEXT PRIMARY KEY,
			reference_type TEXT NOT NULL,
			payload TEXT NOT NULL,
			stored_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reference_entries_type ON reference_entries (reference_type)`,
		`CREATE TABLE IF NOT EXISTS store_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, q := range queries {
		if _, err := s.conn.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Put replaces the stored entries with entries in a single transaction.
// Identifiers missing from entries are removed, so a store always mirrors
// the last precompute run.
func (s *SQLite) Put(entries []precompute.Entry) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reference_entries`); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO reference_entries (identifier, reference_type, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(identifier) DO UPDATE SET
			reference_type = excluded.reference_type,
			payload = excluded.payload,
			stored_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encoding entry %s: %w", e.Identifier, err)
		}
		if _, err := stmt.Exec(e.Identifier.String(), e.Reference.ReferenceType(), string(payload)); err != nil {
			return fmt.Errorf("inserting entry %s: %w", e.Identifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entries: %w", err)
	}
	return nil
}

// Get returns the entry stored for id.
func (s *SQLite) Get(id semantic.Identifier) (precompute.Entry, error) {
	var payload string
	err := s.conn.QueryRow(`SELECT payload FROM reference_entries WHERE identifier = ?`, id.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return precompute.Entry{}, ErrNotFound
	}
	if err != nil {
		return precompute.Entry{}, fmt.Errorf("querying entry %s: %w", id, err)
	}

	var e precompute.Entry
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return precompute.Entry{}, fmt.Errorf("decoding entry %s: %w", id, err)
	}
	return e, nil
}

// Lookup implements precompute.Store. Read failures other than a missing
// row are logged and reported as a miss, so callers render instead.
func (s *SQLite) Lookup(id semantic.Identifier) (precompute.Entry, bool) {
	e, err := s.Get(id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("store: %v", err)
		}
		return precompute.Entry{}, false
	}
	return e, true
}

// Entries returns every stored entry ordered by identifier.
func (s *SQLite) Entries() ([]precompute.Entry, error) {
	rows, err := s.conn.Query(`SELECT identifier, payload FROM reference_entries ORDER BY identifier`)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var out []precompute.Entry
	for rows.Next() {
		var ident, payload string
		if err := rows.Scan(&ident, &payload); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		var e precompute.Entry
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return nil, fmt.Errorf("decoding entry %s: %w", ident, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of stored entries.
func (s *SQLite) Count() (int, error) {
	var n int
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM reference_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

// CountByType returns the number of stored entries per reference type.
func (s *SQLite) CountByType() (map[string]int, error) {
	rows, err := s.conn.Query(`SELECT reference_type, COUNT(*) FROM reference_entries GROUP BY reference_type`)
	if err != nil {
		return nil, fmt.Errorf("counting entries by type: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		out[typ] = n
	}
	return out, rows.Err()
}

// SetMeta records a string value under key.
func (s *SQLite) SetMeta(key, value string) error {
	_, err := s.conn.Exec(`INSERT INTO store_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("setting meta %s: %w", key, err)
	}
	return nil
}

// Meta returns the value stored under key, and false when there is none.
func (s *SQLite) Meta(key string) (string, bool, error) {
	var v string
	err := s.conn.QueryRow(`SELECT value FROM store_meta WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading meta %s: %w", key, err)
	}
	return v, true, nil
}
