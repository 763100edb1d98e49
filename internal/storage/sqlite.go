// Package storage provides SQLite-based persistence for the player profile
// and run history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

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

	"github.com/vovakirdan/snake3d/internal/engine"
)

// Setting keys in the key-value table.
const (
	KeyHighscore  = "highscore"
	KeyAverage    = "average"
	KeyGames      = "games"
	KeyGold       = "gold"
	KeyHardMode   = "hardmode"
	KeySmooth     = "smooth"
	KeyColorblind = "colorblind"
	KeySounds     = "sounds"
	KeyMusic      = "music"
)

// boolKeys are the user-editable toggles and their defaults.
var boolKeys = map[string]bool{
	KeyHardMode:   false,
	KeySmooth:     true,
	KeyColorblind: false,
	KeySounds:     true,
	KeyMusic:      true,
}

// ErrUnknownSetting is returned for keys that are not user-editable toggles.
var ErrUnknownSetting = errors.New("storage: unknown setting")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunEntry represents a single recorded run.
type RunEntry struct {
	ID        string
	Score     int
	Counted   int
	Apples    int
	Gold      int
	Turns     int
	Revives   int
	HardMode  bool
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			counted INTEGER NOT NULL,
			apples INTEGER NOT NULL DEFAULT 0,
			gold INTEGER NOT NULL DEFAULT 0,
			turns INTEGER NOT NULL DEFAULT 0,
			revives INTEGER NOT NULL DEFAULT 0,
			hard_mode INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(score DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

func getValue(q querier, key string) (string, bool, error) {
	var v string
	err := q.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return v, true, nil
}

func setValue(q querier, key, value string) error {
	_, err := q.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", key, err)
	}
	return nil
}

func getInt(q querier, key string) (int, error) {
	v, ok, err := getValue(q, key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("storage: %s is not an integer: %w", key, err)
	}
	return n, nil
}

func getFloat(q querier, key string) (float64, error) {
	v, ok, err := getValue(q, key)
	if err != nil || !ok {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("storage: %s is not a number: %w", key, err)
	}
	return f, nil
}

func getBool(q querier, key string, def bool) (bool, error) {
	v, ok, err := getValue(q, key)
	if err != nil || !ok {
		return def, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("storage: %s is not a boolean: %w", key, err)
	}
	return b, nil
}

// Profile reads the full player profile.
func (s *Store) Profile() (engine.Profile, error) {
	var p engine.Profile
	var err error

	if p.Gold, err = getInt(s.db, KeyGold); err != nil {
		return p, err
	}
	if p.Highscore, err = getInt(s.db, KeyHighscore); err != nil {
		return p, err
	}
	if p.GamesPlayed, err = getInt(s.db, KeyGames); err != nil {
		return p, err
	}
	if p.AverageScore, err = getFloat(s.db, KeyAverage); err != nil {
		return p, err
	}
	if p.HardMode, err = getBool(s.db, KeyHardMode, boolKeys[KeyHardMode]); err != nil {
		return p, err
	}
	if p.SmoothMovement, err = getBool(s.db, KeySmooth, boolKeys[KeySmooth]); err != nil {
		return p, err
	}
	if p.Colorblind, err = getBool(s.db, KeyColorblind, boolKeys[KeyColorblind]); err != nil {
		return p, err
	}
	return p, nil
}

// LoadProfile implements engine.ProfileStore.
func (s *Store) LoadProfile() (engine.Profile, error) {
	return s.Profile()
}

// RecordRun implements engine.ProfileStore.
func (s *Store) RecordRun(rec engine.RunRecord) error {
	_, err := s.SaveRun(rec)
	return err
}

// SaveRun stores a finished run and updates the high score, the running
// average, the games counter and the gold balance in one transaction.
// Returns the ID of the inserted run.
func (s *Store) SaveRun(rec engine.RunRecord) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	id := uuid.NewString()
	_, err = tx.Exec(
		`INSERT INTO runs (id, score, counted, apples, gold, turns, revives, hard_mode)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.Score, rec.Counted, rec.Apples, rec.GoldBalance, rec.Turns, rec.Revives, rec.HardMode,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}

	high, err := getInt(tx, KeyHighscore)
	if err != nil {
		return "", err
	}
	games, err := getInt(tx, KeyGames)
	if err != nil {
		return "", err
	}
	avg, err := getFloat(tx, KeyAverage)
	if err != nil {
		return "", err
	}

	avg = (avg*float64(games) + float64(rec.Counted)) / float64(games+1)
	games++
	high = max(high, rec.Score)

	updates := []struct {
		key, value string
	}{
		{KeyHighscore, strconv.Itoa(high)},
		{KeyGames, strconv.Itoa(games)},
		{KeyAverage, strconv.FormatFloat(avg, 'f', -1, 64)},
		{KeyGold, strconv.Itoa(rec.GoldBalance)},
	}
	for _, u := range updates {
		if err := setValue(tx, u.key, u.value); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

// SetGold overwrites the gold balance.
func (s *Store) SetGold(gold int) error {
	if gold < 0 {
		gold = 0
	}
	return setValue(s.db, KeyGold, strconv.Itoa(gold))
}

// SetToggle writes one of the boolean settings.
func (s *Store) SetToggle(key string, on bool) error {
	if _, ok := boolKeys[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	return setValue(s.db, key, strconv.FormatBool(on))
}

// Toggle reads one of the boolean settings.
func (s *Store) Toggle(key string) (bool, error) {
	def, ok := boolKeys[key]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	return getBool(s.db, key, def)
}

// ToggleKeys lists the boolean setting keys in display order.
func ToggleKeys() []string {
	return []string{KeyHardMode, KeySmooth, KeyColorblind, KeySounds, KeyMusic}
}

// RecentRuns retrieves the most recent runs.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT id, score, counted, apples, gold, turns, revives, hard_mode, created_at
		 FROM runs
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
}

// TopRuns retrieves the top N runs by score.
func (s *Store) TopRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, score, counted, apples, gold, turns, revives, hard_mode, created_at
		 FROM runs
		 ORDER BY score DESC, rowid ASC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]RunEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Score, &e.Counted, &e.Apples, &e.Gold, &e.Turns, &e.Revives, &e.HardMode, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// ClearRuns deletes the run history. The profile counters stay.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// Stats contains aggregated run statistics.
type Stats struct {
	Runs       int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// GetStats aggregates the run history.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0), MAX(created_at)
		 FROM runs`,
	).Scan(&stats.Runs, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// parseTime handles the driver returning either time.Time or a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Ensure Store implements the engine's profile store
var _ engine.ProfileStore = (*Store)(nil)
