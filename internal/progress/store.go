package progress

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"
	"sync"
)

// Store is a key-value table of gob-encoded values.
type Store struct {
	mu    sync.Mutex
	table string
	db    *sql.DB
}

var (
	ErrBadName  = fmt.Errorf("bad name for store")
	ErrNotFound = fmt.Errorf("value not found")
)

func isLetter(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isLetters(s string) bool {
	for _, c := range s {
		if !isLetter(c) {
			return false
		}
	}
	return s != ""
}

// NewStore opens the table named table, which must already exist (the kv
// table is created by the database migrations). table may only contain
// upper- or lowercase Latin letters since it is spliced into queries.
func NewStore(db *sql.DB, table string) (*Store, error) {
	if !isLetters(table) {
		return nil, ErrBadName
	}
	return &Store{table: table, db: db}, nil
}

// Get decodes the value under key into value, which must be a pointer or
// nil. A missing key yields [ErrNotFound]; with a nil value the stored data
// is discarded.
func (s *Store) Get(key string, value any) error {
	var v []byte
	err := s.db.QueryRow(
		`SELECT value FROM `+s.table+` WHERE key = ?;`, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("unable to read %q: %w", key, err)
	}
	if value == nil {
		return nil
	}
	return gob.NewDecoder(bytes.NewReader(v)).Decode(value)
}

// Set inserts a new key-value pair or updates an existing one.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return fmt.Errorf("unable to encode %q: %w", key, err)
	}
	_, err := s.db.Exec(`
INSERT INTO `+s.table+` (key, value)
VALUES(?, ?)
ON CONFLICT(key)
DO UPDATE SET value=excluded.value;`,
		key, buf.Bytes())
	return err
}

// Delete removes key without checking whether it existed.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM `+s.table+` WHERE key = ?;`, key)
	return err
}
