package video

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/anatolykoptev/go_video/internal/engine"
	_ "modernc.org/sqlite"
)

// HistoryEntry is one recorded analysis run.
type HistoryEntry struct {
	ID        int64  `json:"id"`
	VideoID   string `json:"video_id"`
	Tool      string `json:"tool"`
	Prompt    string `json:"prompt,omitempty"`
	Summary   string `json:"summary,omitempty"`
	CreatedAt string `json:"created_at"`
}

// HistoryListInput is the input for video_history.
type HistoryListInput struct {
	VideoID string `json:"video_id,omitempty" jsonschema:"Filter by video ID"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Max entries to return (default: 20)"`
}

// HistoryListResult is the output for video_history.
type HistoryListResult struct {
	Entries []HistoryEntry `json:"entries"`
	Total   int            `json:"total"`
}

var (
	historyDB   *sql.DB
	historyOnce sync.Once
	historyErr  error
)

// openHistoryDB opens (or creates) the SQLite history database.
func openHistoryDB() (*sql.DB, error) {
	historyOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			// No home (e.g. stripped-down service env): history stays off
			// rather than writing a relative ".go_video" wherever cwd is.
			historyErr = fmt.Errorf("history: resolve home dir: %w", err)
			return
		}
		dir := filepath.Join(home, ".go_video")
		if err := os.MkdirAll(dir, 0750); err != nil {
			historyErr = fmt.Errorf("history: mkdir %s: %w", dir, err)
			return
		}
		dbPath := filepath.Join(dir, "history.db")
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			historyErr = fmt.Errorf("history: open db: %w", err)
			return
		}
		db.SetMaxOpenConns(1) // SQLite: single writer
		if err := initHistorySchema(db); err != nil {
			historyErr = fmt.Errorf("history: init schema: %w", err)
			return
		}
		historyDB = db
	})
	return historyDB, historyErr
}

// initHistorySchema creates the analyses table if it doesn't exist.
func initHistorySchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS analyses (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id   TEXT NOT NULL,
		tool       TEXT NOT NULL,
		prompt     TEXT,
		summary    TEXT,
		created_at TEXT NOT NULL
	)`)
	return err
}

// RecordAnalysis logs a completed analysis run. Strictly best-effort: the
// history is an operational log, so failures are logged and swallowed and
// must never affect the tool call's outcome. No-op when history is disabled.
func RecordAnalysis(ctx context.Context, videoID, tool, prompt, summary string) {
	if engine.Cfg.HistoryDisabled {
		return
	}
	db, err := openHistoryDB()
	if err != nil {
		slog.Warn("history unavailable", slog.Any("error", err))
		return
	}

	if len(summary) > 500 {
		summary = summary[:500]
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO analyses (video_id, tool, prompt, summary, created_at) VALUES (?, ?, ?, ?, ?)`,
		videoID, tool, prompt, summary, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		slog.Warn("history write failed", slog.Any("error", err))
		return
	}
	engine.IncrHistoryWrites()
}

// ListHistory returns recent analysis runs, newest first.
func ListHistory(ctx context.Context, input HistoryListInput) (*HistoryListResult, error) {
	db, err := openHistoryDB()
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `SELECT id, video_id, tool, prompt, summary, created_at FROM analyses`
	args := []any{}
	if input.VideoID != "" {
		query += ` WHERE video_id = ?`
		args = append(args, input.VideoID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var prompt, summary sql.NullString
		if err := rows.Scan(&e.ID, &e.VideoID, &e.Tool, &prompt, &summary, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.Prompt = prompt.String
		e.Summary = summary.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}
	return &HistoryListResult{Entries: entries, Total: len(entries)}, nil
}
