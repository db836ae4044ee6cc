package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS preferred_organisms (
	organism TEXT PRIMARY KEY,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS known_organisms (
	organism TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const (
	settingEnabled = "enabled"
	settingSavedAt = "saved_at"
)

// SQLiteStore keeps preferences in a SQLite database
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLiteStore opens (and creates if needed) the preference database
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	// A single connection serializes writers from the UI and socket paths
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file path
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads the saved preferences. ErrNoPreferences is returned when
// nothing was saved yet.
func (s *SQLiteStore) Load(ctx context.Context) (*Preferences, error) {
	savedAt, err := s.setting(ctx, settingSavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoPreferences
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	prefs := &Preferences{}
	if prefs.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return nil, fmt.Errorf("invalid saved_at %q: %w", savedAt, err)
	}

	enabled, err := s.setting(ctx, settingEnabled)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	prefs.Enabled, _ = strconv.ParseBool(enabled)

	if prefs.Organisms, err = s.column(ctx, "SELECT organism FROM preferred_organisms ORDER BY position"); err != nil {
		return nil, err
	}
	if prefs.Known, err = s.column(ctx, "SELECT organism FROM known_organisms ORDER BY organism"); err != nil {
		return nil, err
	}
	return prefs, nil
}

// Save replaces the stored preferences in a single transaction
func (s *SQLiteStore) Save(ctx context.Context, prefs *Preferences) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM preferred_organisms"); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	for i, id := range prefs.Organisms {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO preferred_organisms (organism, position) VALUES (?, ?)", id, i); err != nil {
			return fmt.Errorf("failed to save organism %s: %w", id, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM known_organisms"); err != nil {
		return fmt.Errorf("failed to clear known organisms: %w", err)
	}
	for _, id := range prefs.Known {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO known_organisms (organism) VALUES (?)", id); err != nil {
			return fmt.Errorf("failed to save known organism %s: %w", id, err)
		}
	}

	savedAt := prefs.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	if err := putSetting(ctx, tx, settingSavedAt, savedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	if err := putSetting(ctx, tx, settingEnabled, strconv.FormatBool(prefs.Enabled)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit preferences: %w", err)
	}
	return nil
}

// SetEnabled stores only the enabled flag
func (s *SQLiteStore) SetEnabled(ctx context.Context, enabled bool) error {
	return putSetting(ctx, s.db, settingEnabled, strconv.FormatBool(enabled))
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putSetting(ctx context.Context, db execer, key, value string) error {
	_, err := db.ExecContext(ctx,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) setting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	return value, err
}

func (s *SQLiteStore) column(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
