package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder journals calls to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite journal opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS call_events (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			kind        TEXT NOT NULL,
			name        TEXT NOT NULL,
			symbols     TEXT,
			period      TEXT,
			outcome     TEXT,
			detail      TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_call_events_ts ON call_events(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_call_events_name ON call_events(name, outcome)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordCall(evt *CallEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.Time.IsZero() {
		evt.Time = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO call_events
		(id, timestamp, kind, name, symbols, period, outcome, detail, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		evt.ID, evt.Time.UnixMilli(), evt.Kind, evt.Name, evt.symbolList(),
		evt.Period, evt.Outcome, evt.Detail, evt.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) Recent(limit int) ([]CallEvent, error) {
	rows, err := r.db.Query(`SELECT id, timestamp, kind, name, symbols, period, outcome, detail, duration_ms
		FROM call_events ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var events []CallEvent
	for rows.Next() {
		var (
			evt       CallEvent
			ts, durMS int64
			symbols   sql.NullString
			period    sql.NullString
			outcome   sql.NullString
			detail    sql.NullString
		)
		if err := rows.Scan(&evt.ID, &ts, &evt.Kind, &evt.Name, &symbols, &period, &outcome, &detail, &durMS); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		evt.Time = time.UnixMilli(ts)
		if symbols.String != "" {
			evt.Symbols = strings.Split(symbols.String, ",")
		}
		evt.Period = period.String
		evt.Outcome = outcome.String
		evt.Detail = detail.String
		evt.Duration = time.Duration(durMS) * time.Millisecond
		events = append(events, evt)
	}
	return events, rows.Err()
}

func (r *SQLiteRecorder) Prune(before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`DELETE FROM call_events WHERE timestamp < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite journal")
	return r.db.Close()
}
