package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/pitcher-luck/internal/pitcher"

	_ "github.com/glebarez/go-sqlite"
)

// FileName is the cache database created inside the cache directory.
const FileName = "seasons.db"

var schema = []string{`
    CREATE TABLE IF NOT EXISTS seasons (
        year INTEGER PRIMARY KEY,
        fingerprint TEXT NOT NULL,
        built_at DATETIME DEFAULT CURRENT_TIMESTAMP
    )`, `
    CREATE TABLE IF NOT EXISTS season_records (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        year INTEGER NOT NULL,
        position INTEGER NOT NULL,
        team TEXT NOT NULL,
        pitcher_id TEXT NOT NULL,
        payload TEXT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_season_records_year ON season_records (year, position)`,
}

// Storage is the season cache.
type Storage struct {
	db   *sql.DB
	path string
}

// New opens (creating if needed) the season cache in cacheDir.
func New(cacheDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(cacheDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		cacheDir = filepath.Join(home, cacheDir[2:])
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	path := filepath.Join(cacheDir, FileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening season cache: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating season cache schema: %w", err)
		}
	}

	return &Storage{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *Storage) Path() string {
	return s.path
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// LoadSeason returns the cached records of year. ok is false when nothing
// is cached or the cache was built from different source files.
func (s *Storage) LoadSeason(ctx context.Context, year int, fingerprint string) (records []pitcher.Record, ok bool, err error) {
	var stored string
	err = s.db.QueryRowContext(ctx, `SELECT fingerprint FROM seasons WHERE year = ?`, year).Scan(&stored)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading season %d: %w", year, err)
	}
	if stored != fingerprint {
		return nil, false, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM season_records WHERE year = ? ORDER BY position`, year)
	if err != nil {
		return nil, false, fmt.Errorf("reading season %d records: %w", year, err)
	}
	defer rows.Close()

	records = []pitcher.Record{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, false, fmt.Errorf("scanning season %d: %w", year, err)
		}
		var rec pitcher.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, false, fmt.Errorf("decoding season %d record: %w", year, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("reading season %d records: %w", year, err)
	}

	return records, true, nil
}

// SaveSeason replaces the cached records of year.
func (s *Storage) SaveSeason(ctx context.Context, year int, fingerprint string, records []pitcher.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM season_records WHERE year = ?`, year); err != nil {
		return fmt.Errorf("clearing season %d: %w", year, err)
	}

	for i, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", rec.PitcherID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO season_records (year, position, team, pitcher_id, payload) VALUES (?, ?, ?, ?, ?)`,
			year, i, rec.Team, rec.PitcherID, string(payload)); err != nil {
			return fmt.Errorf("writing %s: %w", rec.PitcherID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO seasons (year, fingerprint, built_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(year) DO UPDATE SET fingerprint = excluded.fingerprint, built_at = excluded.built_at`,
		year, fingerprint); err != nil {
		return fmt.Errorf("writing season %d: %w", year, err)
	}

	return tx.Commit()
}

// Clear drops every cached season.
func (s *Storage) Clear(ctx context.Context) error {
	for _, table := range []string{"season_records", "seasons"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// Fingerprint identifies the current contents of the source files by size
// and modification time. A missing file is an error.
func Fingerprint(paths ...string) (string, error) {
	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return "", fmt.Errorf("fingerprinting %s: %w", p, err)
		}
		parts = append(parts, fmt.Sprintf("%s:%d:%d", filepath.Base(p), info.Size(), info.ModTime().UnixNano()))
	}
	return strings.Join(parts, "|"), nil
}
