// Package nvram persists LED records in a small SQLite database,
// standing in for the cube's non-volatile memory.
package nvram

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/0x007E/rcc/colorcube"
)

// Store implements colorcube.Store, one row per LED slot.
type Store struct {
	db *sql.DB
}

// Open opens the database and initializes the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS led_slots (
			slot INTEGER PRIMARY KEY,
			intensity INTEGER NOT NULL,
			red INTEGER NOT NULL,
			green INTEGER NOT NULL,
			blue INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create led_slots table: %w", err)
	}
	return nil
}

// Load reads one slot; colorcube.ErrNoRecord when it was never written.
func (s *Store) Load(slot int) (colorcube.Data, error) {
	var d colorcube.Data
	err := s.db.QueryRow(`
		SELECT intensity, red, green, blue FROM led_slots
		WHERE slot = ?
	`, slot).Scan(&d.Intensity, &d.Red, &d.Green, &d.Blue)
	if err == sql.ErrNoRows {
		return colorcube.Data{}, colorcube.ErrNoRecord
	}
	if err != nil {
		return colorcube.Data{}, fmt.Errorf("failed to load slot %d: %w", slot, err)
	}
	return d, nil
}

// Save upserts one slot.
func (s *Store) Save(slot int, d colorcube.Data) error {
	now := time.Now().UTC().Unix()
	_, err := s.db.Exec(`
		INSERT INTO led_slots (slot, intensity, red, green, blue, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			intensity = excluded.intensity,
			red = excluded.red,
			green = excluded.green,
			blue = excluded.blue,
			updated_at = excluded.updated_at
	`, slot, d.Intensity, d.Red, d.Green, d.Blue, now)
	if err != nil {
		return fmt.Errorf("failed to save slot %d: %w", slot, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
