package storage

import (
	"database/sql"
	"fmt"
)

// SQLiteKV implements KV backed by a SQLite slots table. The database is
// shared single-writer state under the user's profile; SQLite's own locking
// plus per-call transactions give the atomicity KV promises.
type SQLiteKV struct {
	db *sql.DB

	// Prepared statements
	getSlot    *sql.Stmt
	upsertSlot *sql.Stmt
	deleteSlot *sql.Stmt
}

// NewSQLiteKV creates a SQLiteKV from an already-opened and migrated database.
func NewSQLiteKV(db *sql.DB) (*SQLiteKV, error) {
	s := &SQLiteKV{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteKV) prepareStatements() error {
	var err error

	s.getSlot, err = s.db.Prepare(`SELECT value FROM slots WHERE key = ?`)
	if err != nil {
		return err
	}

	s.upsertSlot, err = s.db.Prepare(`
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return err
	}

	s.deleteSlot, err = s.db.Prepare(`DELETE FROM slots WHERE key = ?`)
	if err != nil {
		return err
	}

	return nil
}

// Get returns the value for key and whether it was present.
func (s *SQLiteKV) Get(key string) (string, bool, error) {
	var value string
	err := s.getSlot.QueryRow(key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get slot %q: %w", key, err)
	}
	return value, true, nil
}

// SetAll writes every entry in a single transaction.
func (s *SQLiteKV) SetAll(entries map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for k, v := range entries {
		if _, err := tx.Stmt(s.upsertSlot).Exec(k, v); err != nil {
			return fmt.Errorf("upsert slot %q: %w", k, err)
		}
	}

	return tx.Commit()
}

// Remove deletes the given keys in a single transaction. Missing keys are
// not an error.
func (s *SQLiteKV) Remove(keys ...string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, k := range keys {
		if _, err := tx.Stmt(s.deleteSlot).Exec(k); err != nil {
			return fmt.Errorf("delete slot %q: %w", k, err)
		}
	}

	return tx.Commit()
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed — that is the caller's responsibility.
func (s *SQLiteKV) Close() error {
	stmts := []*sql.Stmt{s.getSlot, s.upsertSlot, s.deleteSlot}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
