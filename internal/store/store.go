// Package store persists the account and score history in a local SQLite
// save file.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS save_values (
	name  TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS score_history (
	id          TEXT PRIMARY KEY,
	final_asset REAL NOT NULL,
	stage       INTEGER NOT NULL,
	level       INTEGER NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_score_history_asset ON score_history(final_asset DESC);
`

// Keys in the save_values table.
const (
	keyHighScore    = "high_score"
	keyAccountLevel = "account_level"
	keyAccountExp   = "account_exp"
	keyTutorialSeen = "tutorial_seen"
)

// ScoreEntry is one finished run.
type ScoreEntry struct {
	ID         string    `json:"id"`
	FinalAsset float64   `json:"final_asset"`
	Stage      int       `json:"stage"`
	Level      int       `json:"level"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Store wraps the save-file connection. It satisfies the session's
// persistence interface.
type Store struct {
	conn *sql.DB
	path string
}

// DefaultPath is the save file under the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".chartsurfer", "save.db"), nil
}

// Open creates the save directory if needed, opens the database in WAL mode
// and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create save directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open save file: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping save file: %w", err)
	}
	// A single local player; no need for a pool.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{conn: conn, path: path}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) Path() string { return s.path }

func (s *Store) getValue(name string) (string, bool, error) {
	var v string
	err := s.conn.QueryRow(`SELECT value FROM save_values WHERE name = ?`, name).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", name, err)
	}
	return v, true, nil
}

func (s *Store) setValue(name, value string) error {
	_, err := s.conn.Exec(
		`INSERT INTO save_values (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		name, value,
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *Store) HighScore() (float64, error) {
	v, ok, err := s.getValue(keyHighScore)
	if err != nil || !ok {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse high score: %w", err)
	}
	return f, nil
}

func (s *Store) SetHighScore(v float64) error {
	return s.setValue(keyHighScore, strconv.FormatFloat(v, 'f', -1, 64))
}

func (s *Store) AccountLevel() (int, int64, error) {
	v, ok, err := s.getValue(keyAccountLevel)
	if err != nil || !ok {
		return 0, 0, err
	}
	level, err := strconv.Atoi(v)
	if err != nil {
		return 0, 0, fmt.Errorf("parse account level: %w", err)
	}

	var exp int64
	if v, ok, err = s.getValue(keyAccountExp); err != nil {
		return 0, 0, err
	} else if ok {
		if exp, err = strconv.ParseInt(v, 10, 64); err != nil {
			return 0, 0, fmt.Errorf("parse account exp: %w", err)
		}
	}
	return level, exp, nil
}

func (s *Store) SetAccountLevel(level int, exp int64) error {
	if err := s.setValue(keyAccountLevel, strconv.Itoa(level)); err != nil {
		return err
	}
	return s.setValue(keyAccountExp, strconv.FormatInt(exp, 10))
}

func (s *Store) TutorialSeen() (bool, error) {
	v, ok, err := s.getValue(keyTutorialSeen)
	if err != nil || !ok {
		return false, err
	}
	return v == "1", nil
}

func (s *Store) SetTutorialSeen(seen bool) error {
	v := "0"
	if seen {
		v = "1"
	}
	return s.setValue(keyTutorialSeen, v)
}

// RecordScore appends a finished run to the history.
func (s *Store) RecordScore(finalAsset float64, stage, level int) error {
	_, err := s.conn.Exec(
		`INSERT INTO score_history (id, final_asset, stage, level, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), finalAsset, stage, level, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}

// TopScores returns the best runs, highest final asset first.
func (s *Store) TopScores(limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.conn.Query(
		`SELECT id, final_asset, stage, level, recorded_at
		 FROM score_history ORDER BY final_asset DESC, recorded_at ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		if err := rows.Scan(&e.ID, &e.FinalAsset, &e.Stage, &e.Level, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return out, nil
}

// Reset wipes the save file contents.
func (s *Store) Reset() error {
	if _, err := s.conn.Exec(`DELETE FROM save_values`); err != nil {
		return fmt.Errorf("reset values: %w", err)
	}
	if _, err := s.conn.Exec(`DELETE FROM score_history`); err != nil {
		return fmt.Errorf("reset history: %w", err)
	}
	return nil
}
