package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/csheth/paperpin/internal/item"
)

const schema = `CREATE TABLE IF NOT EXISTS slots (
  name TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`

// SQLite keeps one row per slot.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(slot Slot) ([]item.Item, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM slots WHERE name = ?`, slot.Key()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", slot.Key(), err)
	}
	return decodeSlot(slot, []byte(payload))
}

func (s *SQLite) Save(slot Slot, items []item.Item) error {
	payload, err := item.EncodeList(items)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO slots (name, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		slot.Key(), string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save %s: %w", slot.Key(), err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
