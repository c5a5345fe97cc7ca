package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"spinroom/transcript"
)

const defaultLocalDBName = "spinroom_local.db"

type SQLiteService struct {
	db          *sql.DB
	recentLimit int
}

func NewSQLiteServiceFromEnv() (*SQLiteService, error) {
	dbPath, err := ledgerLocalDatabasePathFromEnv()
	if err != nil {
		return nil, err
	}
	return NewSQLiteService(dbPath)
}

func NewSQLiteService(dbPath string) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteLedgerSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteService{
		db:          db,
		recentLimit: envIntOrDefault("SPINROOM_HISTORY_LIMIT", defaultRecentLimit),
	}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) SaveInterview(ctx context.Context, userID uint64, sum transcript.Summary, tape *transcript.Tape, playedAt time.Time) error {
	if err := validateSave(userID, sum, tape); err != nil {
		return err
	}
	if playedAt.IsZero() {
		playedAt = time.Now().UTC()
	}
	summaryRaw, err := json.Marshal(sum)
	if err != nil {
		return err
	}
	tapeBlob, err := tape.Encode()
	if err != nil {
		return err
	}

	playedAtMs := playedAt.UTC().UnixMilli()
	nowMs := time.Now().UTC().UnixMilli()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO interview_history (
    user_id, interview_id, scenario, summary_json, tape_blob, played_at_ms, updated_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, interview_id) DO UPDATE
SET
    summary_json = excluded.summary_json,
    tape_blob = excluded.tape_blob,
    played_at_ms = excluded.played_at_ms,
    updated_at_ms = excluded.updated_at_ms
`, userID, sum.ID, sum.Scenario, string(summaryRaw), tapeBlob, playedAtMs, nowMs); err != nil {
		return err
	}

	if s.recentLimit > 0 {
		if _, err := tx.ExecContext(ctx, `
DELETE FROM interview_history
WHERE user_id = ?
  AND id IN (
      SELECT id
      FROM interview_history
      WHERE user_id = ?
      ORDER BY played_at_ms DESC, id DESC
      LIMIT -1 OFFSET ?
  )
`, userID, userID, s.recentLimit); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteService) ListRecent(ctx context.Context, userID uint64, limit int) ([]HistoryItem, error) {
	if userID == 0 {
		return []HistoryItem{}, nil
	}
	limit = clampLimit(limit)

	rows, err := s.db.QueryContext(ctx, `
SELECT summary_json, played_at_ms
FROM interview_history
WHERE user_id = ?
ORDER BY played_at_ms DESC, id DESC
LIMIT ?
`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]HistoryItem, 0, limit)
	for rows.Next() {
		var summaryRaw []byte
		var playedAtMs int64
		if err := rows.Scan(&summaryRaw, &playedAtMs); err != nil {
			return nil, err
		}
		var item HistoryItem
		if err := json.Unmarshal(summaryRaw, &item.Summary); err != nil {
			return nil, err
		}
		item.PlayedAt = time.UnixMilli(playedAtMs).UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLiteService) GetTape(ctx context.Context, userID uint64, interviewID string) (*transcript.Tape, error) {
	if userID == 0 || strings.TrimSpace(interviewID) == "" {
		return nil, ErrNotFound
	}

	var tapeBlob []byte
	err := s.db.QueryRowContext(ctx, `
SELECT tape_blob
FROM interview_history
WHERE user_id = ?
  AND interview_id = ?
`, userID, interviewID).Scan(&tapeBlob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return transcript.Decode(tapeBlob)
}

func ensureSQLiteLedgerSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS interview_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    interview_id TEXT NOT NULL,
    scenario TEXT NOT NULL DEFAULT '',
    summary_json TEXT NOT NULL DEFAULT '{}',
    tape_blob BLOB NOT NULL,
    played_at_ms INTEGER NOT NULL,
    updated_at_ms INTEGER NOT NULL,
    UNIQUE (user_id, interview_id)
)`,
		`CREATE INDEX IF NOT EXISTS idx_interview_history_recent ON interview_history(user_id, played_at_ms DESC)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func ledgerLocalDatabasePathFromEnv() (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("SPINROOM_LEDGER_DB_PATH")),
		strings.TrimSpace(os.Getenv("SPINROOM_DB_PATH")),
	}
	for _, candidate := range candidates {
		if candidate != "" {
			return filepath.Clean(candidate), nil
		}
	}

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "Spinroom", defaultLocalDBName), nil
}
