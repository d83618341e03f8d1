// Package journal records dispatched actions to SQLite so that a session can
// be listed and replayed into a fresh store.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/tea-presenter/internal/store"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS actions (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	session TEXT NOT NULL,
	type TEXT NOT NULL,
	payload BLOB NOT NULL,
	recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_actions_session ON actions(session, seq);
`

// timeLayout is fixed width so recorded_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one recorded action.
type Entry struct {
	Seq        int64
	Session    string
	Type       string
	Payload    []byte
	RecordedAt time.Time
}

// Session summarizes the actions recorded under one session ID.
type Session struct {
	ID      string
	Actions int
	First   time.Time
	Last    time.Time
}

// Journal is a SQLite-backed action log.
type Journal struct {
	db    *sql.DB
	codec *Codec
	now   func() time.Time
}

// NewSession returns a fresh session ID.
func NewSession() string {
	return uuid.NewString()
}

// Open opens or creates the journal database at path.
func Open(path string, codec *Codec) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal: db path cannot be empty")
	}
	if codec == nil {
		return nil, fmt.Errorf("journal: codec cannot be nil")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open db: %w", err)
	}

	j := &Journal{db: db, codec: codec, now: time.Now}
	if err := j.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Codec returns the codec the journal encodes actions with.
func (j *Journal) Codec() *Codec {
	return j.codec
}

func (j *Journal) init() error {
	if _, err := j.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("journal: set busy timeout: %w", err)
	}
	if _, err := j.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("journal: create schema: %w", err)
	}
	return nil
}

// Append records action under session and returns its sequence number.
func (j *Journal) Append(ctx context.Context, session string, action store.Action) (int64, error) {
	if strings.TrimSpace(session) == "" {
		return 0, ErrSessionRequired
	}
	name, payload, err := j.codec.Encode(action)
	if err != nil {
		return 0, err
	}

	res, err := j.db.ExecContext(ctx,
		`INSERT INTO actions (session, type, payload, recorded_at) VALUES (?, ?, ?, ?)`,
		session, name, payload, j.now().UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("journal: append %s: %w", name, err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("journal: append %s: read sequence: %w", name, err)
	}
	return seq, nil
}

// List returns recorded entries in sequence order. An empty session lists
// every session; a limit of zero or less means no limit.
func (j *Journal) List(ctx context.Context, session string, limit int) ([]Entry, error) {
	query := `SELECT seq, session, type, payload, recorded_at FROM actions`
	var args []any
	if session != "" {
		query += ` WHERE session = ?`
		args = append(args, session)
	}
	query += ` ORDER BY seq`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry      Entry
			recordedAt string
		)
		if err := rows.Scan(&entry.Seq, &entry.Session, &entry.Type, &entry.Payload, &recordedAt); err != nil {
			return nil, fmt.Errorf("journal: scan entry: %w", err)
		}
		entry.RecordedAt, err = time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("journal: parse time of entry %d: %w", entry.Seq, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	return entries, nil
}

// Sessions summarizes every recorded session, oldest first.
func (j *Journal) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session, COUNT(*), MIN(recorded_at), MAX(recorded_at)
		FROM actions
		GROUP BY session
		ORDER BY MIN(seq)`)
	if err != nil {
		return nil, fmt.Errorf("journal: sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			s           Session
			first, last string
		)
		if err := rows.Scan(&s.ID, &s.Actions, &first, &last); err != nil {
			return nil, fmt.Errorf("journal: scan session: %w", err)
		}
		if s.First, err = time.Parse(timeLayout, first); err != nil {
			return nil, fmt.Errorf("journal: parse session %s start: %w", s.ID, err)
		}
		if s.Last, err = time.Parse(timeLayout, last); err != nil {
			return nil, fmt.Errorf("journal: parse session %s end: %w", s.ID, err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: sessions: %w", err)
	}
	return sessions, nil
}

// Decode rebuilds the action recorded in entry.
func (j *Journal) Decode(entry Entry) (store.Action, error) {
	return j.codec.Decode(entry.Type, entry.Payload)
}

// Replay dispatches every action of session in sequence order and returns how
// many were dispatched. It stops at the first decode or dispatch error.
func (j *Journal) Replay(ctx context.Context, session string, dispatch store.Dispatcher) (int, error) {
	if strings.TrimSpace(session) == "" {
		return 0, ErrSessionRequired
	}
	entries, err := j.List(ctx, session, 0)
	if err != nil {
		return 0, err
	}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		action, err := j.Decode(entry)
		if err != nil {
			return i, fmt.Errorf("journal: replay entry %d: %w", entry.Seq, err)
		}
		if err := dispatch(action); err != nil {
			return i, fmt.Errorf("journal: replay entry %d: %w", entry.Seq, err)
		}
	}
	return len(entries), nil
}
