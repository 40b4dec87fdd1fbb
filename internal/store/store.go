// Package store handles SQLite persistence of break runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/subcrack/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for break history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS breaks (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			cipher TEXT NOT NULL,
			input TEXT NOT NULL,
			text_length INTEGER NOT NULL,
			key_length INTEGER NOT NULL,
			key TEXT NOT NULL,
			score INTEGER NOT NULL,
			restarts INTEGER NOT NULL,
			stall INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS break_restarts (
			break_id INTEGER NOT NULL,
			restart INTEGER NOT NULL,
			key TEXT NOT NULL,
			score INTEGER NOT NULL,
			trials INTEGER NOT NULL,
			accepted INTEGER NOT NULL,
			PRIMARY KEY (break_id, restart)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_breaks_ended_at ON breaks(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_breaks_cipher ON breaks(cipher);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertBreak stores a completed break and its per-restart outcomes.
func (s *Store) InsertBreak(ctx context.Context, rec model.BreakRecord, restarts []model.RestartRecord) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO breaks (started_at, ended_at, cipher, input, text_length, key_length, key, score, restarts, stall, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		formatTime(rec.StartedAt),
		formatTime(rec.EndedAt),
		string(rec.Cipher),
		rec.Input,
		rec.TextLength,
		rec.KeyLength,
		rec.Key,
		rec.Score,
		rec.Restarts,
		rec.Stall,
		rec.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(restarts) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO break_restarts (break_id, restart, key, score, trials, accepted)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, r := range restarts {
			if _, err := stmt.ExecContext(ctx, id, r.Restart, r.Key, r.Score, r.Trials, r.Accepted); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListBreaks returns break runs matching the filter, oldest first.
func (s *Store) ListBreaks(ctx context.Context, filter model.HistoryFilter) ([]model.BreakRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Cipher != "" {
		clauses = append(clauses, "cipher = ?")
		args = append(args, string(filter.Cipher))
	}
	if filter.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*filter.Since))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, cipher, input, text_length, key_length, key, score, restarts, stall, duration_ms
		FROM breaks
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.BreakRecord
	for rows.Next() {
		var rec model.BreakRecord
		var startedAt, endedAt, cipher string
		if err := rows.Scan(&rec.ID, &startedAt, &endedAt, &cipher, &rec.Input, &rec.TextLength, &rec.KeyLength, &rec.Key, &rec.Score, &rec.Restarts, &rec.Stall, &rec.DurationMs); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, err
		}
		rec.Cipher = model.Cipher(cipher)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if filter.Last > 0 && len(records) > filter.Last {
		records = records[len(records)-filter.Last:]
	}
	return records, nil
}

// ListRestarts returns the restarts recorded for a break, by restart index.
func (s *Store) ListRestarts(ctx context.Context, breakID int64) ([]model.RestartRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT restart, key, score, trials, accepted
		 FROM break_restarts
		 WHERE break_id = ?
		 ORDER BY restart ASC`, breakID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.RestartRecord
	for rows.Next() {
		var r model.RestartRecord
		if err := rows.Scan(&r.Restart, &r.Key, &r.Score, &r.Trials, &r.Accepted); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// timeLayout is fixed width so stored timestamps sort in time order as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
