// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal keeps an append-only SQLite log of review decisions.
// Every committed and undone decision is one row, grouped into sessions so
// the operator can audit what each run changed.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/outreach-engine/internal/review"
)

// DefaultPath is where the journal lives unless configured otherwise.
const DefaultPath = "outreach-journal.db"

var _ review.Recorder = (*Journal)(nil)

// Journal is the decision log.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the journal database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	j := &Journal{db: db, now: time.Now}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return j, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			pass TEXT NOT NULL,
			input TEXT,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS decisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session TEXT NOT NULL REFERENCES sessions(id),
			pass TEXT NOT NULL,
			record_key TEXT NOT NULL,
			field TEXT NOT NULL,
			value TEXT,
			previous TEXT,
			undo INTEGER NOT NULL DEFAULT 0,
			decided_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_session ON decisions(session)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_key ON decisions(record_key)`,
	}
	for _, stmt := range statements {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// StartSession registers a new review run and returns its id.
func (j *Journal) StartSession(ctx context.Context, pass, input string) (string, error) {
	id := uuid.NewString()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO sessions (id, pass, input, started_at) VALUES (?, ?, ?, ?)`,
		id, pass, input, formatTime(j.now()))
	if err != nil {
		return "", fmt.Errorf("starting session: %w", err)
	}
	return id, nil
}

// Record appends one decision. It satisfies review.Recorder.
func (j *Journal) Record(ctx context.Context, e review.Entry) error {
	if e.Session == "" {
		return fmt.Errorf("recording %s: missing session id", e.Key)
	}
	at := e.At
	if at.IsZero() {
		at = j.now()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO decisions (session, pass, record_key, field, value, previous, undo, decided_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Session, e.Pass, e.Key, e.Field, e.Value, e.Previous, boolToInt(e.Undo), formatTime(at))
	if err != nil {
		return fmt.Errorf("recording %s: %w", e.Key, err)
	}
	return nil
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Session string
	Pass    string
	Key     string
	Limit   int
}

// List returns decisions in the order they were made.
func (j *Journal) List(ctx context.Context, f Filter) ([]review.Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.Session != "" {
		where = append(where, "session = ?")
		args = append(args, f.Session)
	}
	if f.Pass != "" {
		where = append(where, "pass = ?")
		args = append(args, f.Pass)
	}
	if f.Key != "" {
		where = append(where, "record_key = ?")
		args = append(args, f.Key)
	}

	query := `SELECT session, pass, record_key, field, value, previous, undo, decided_at FROM decisions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying decisions: %w", err)
	}
	defer rows.Close()

	var out []review.Entry
	for rows.Next() {
		var (
			e         review.Entry
			value     sql.NullString
			previous  sql.NullString
			undo      int
			decidedAt string
		)
		if err := rows.Scan(&e.Session, &e.Pass, &e.Key, &e.Field, &value, &previous, &undo, &decidedAt); err != nil {
			return nil, fmt.Errorf("scanning decision: %w", err)
		}
		e.Value = value.String
		e.Previous = previous.String
		e.Undo = undo != 0
		e.At, _ = time.Parse(time.RFC3339Nano, decidedAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// SessionSummary describes one review run.
type SessionSummary struct {
	ID        string    `json:"id" yaml:"id"`
	Pass      string    `json:"pass" yaml:"pass"`
	Input     string    `json:"input,omitempty" yaml:"input,omitempty"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Decisions int       `json:"decisions" yaml:"decisions"`
	Undos     int       `json:"undos" yaml:"undos"`
}

// Sessions returns the recorded runs, oldest first, optionally limited to one pass.
func (j *Journal) Sessions(ctx context.Context, pass string) ([]SessionSummary, error) {
	query := `SELECT s.id, s.pass, COALESCE(s.input, ''), s.started_at,
			COALESCE(SUM(CASE WHEN d.undo = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN d.undo = 1 THEN 1 ELSE 0 END), 0)
		FROM sessions s LEFT JOIN decisions d ON d.session = s.id`
	var args []any
	if pass != "" {
		query += " WHERE s.pass = ?"
		args = append(args, pass)
	}
	query += " GROUP BY s.id ORDER BY s.started_at, s.rowid"

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var (
			s       SessionSummary
			started string
		)
		if err := rows.Scan(&s.ID, &s.Pass, &s.Input, &started, &s.Decisions, &s.Undos); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		s.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Latest replays the journal for pass and returns the value each record
// key ended with. Keys whose decisions were all undone are absent.
func (j *Journal) Latest(ctx context.Context, pass string) (map[string]string, error) {
	entries, err := j.List(ctx, Filter{Pass: pass})
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for _, e := range entries {
		if e.Value == "" {
			delete(out, e.Key)
			continue
		}
		out[e.Key] = e.Value
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
