// Package history keeps an audit log of the remote operations of every run.
// Nothing in the sync path reads it back.
package history

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/openmined/flickrsync/internal/db"
	"github.com/openmined/flickrsync/internal/photo"
)

const schema = `
CREATE TABLE IF NOT EXISTS sync_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    op TEXT NOT NULL,
    name TEXT NOT NULL,
    photo_id TEXT NOT NULL,
    status TEXT NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL -- RFC3339Nano
);

CREATE INDEX IF NOT EXISTS idx_history_run ON sync_history(run_id);
CREATE INDEX IF NOT EXISTS idx_history_created ON sync_history(created_at);
`

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

var ErrJournalClosed = errors.New("history: journal not open")

// Entry is one recorded operation.
type Entry struct {
	ID        int64     `db:"id"`
	RunID     string    `db:"run_id"`
	Op        photo.Op  `db:"op"`
	Name      string    `db:"name"`
	PhotoID   string    `db:"photo_id"`
	Status    string    `db:"status"`
	Error     string    `db:"error"`
	CreatedAt time.Time `db:"-"`
}

type dbEntry struct {
	Entry
	CreatedAt string `db:"created_at"`
}

// Journal stores entries in a sqlite database. Every Journal gets its own
// run id, so one process run maps to one run in the history.
type Journal struct {
	db    *sqlx.DB
	path  string
	runID string
	now   func() time.Time
	mu    sync.Mutex
}

// NewJournal returns a closed journal for the given database path. An empty
// path keeps the history in memory.
func NewJournal(path string) *Journal {
	return &Journal{
		path:  path,
		runID: uuid.NewString(),
		now:   time.Now,
	}
}

func (j *Journal) RunID() string {
	return j.runID
}

func (j *Journal) Open() error {
	if j.db != nil {
		return fmt.Errorf("history journal already open")
	}

	var opts []db.SqliteOption
	if j.path != "" {
		opts = append(opts, db.WithPath(j.path))
	}

	conn, err := db.NewSqliteDB(opts...)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}

	j.db = conn
	return nil
}

func (j *Journal) Close() error {
	if j.db == nil {
		return ErrJournalClosed
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// Record stores one attempted operation. It satisfies photo.Recorder, so
// write failures are logged rather than returned.
func (j *Journal) Record(op photo.Op, name, photoID string, opErr error) {
	if err := j.Add(op, name, photoID, opErr); err != nil {
		slog.Warn("history record", "op", op, "name", name, "error", err)
	}
}

// Add stores one attempted operation.
func (j *Journal) Add(op photo.Op, name, photoID string, opErr error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.db == nil {
		return ErrJournalClosed
	}

	status, message := StatusOK, ""
	if opErr != nil {
		status, message = StatusFailed, opErr.Error()
	}

	_, err := j.db.Exec(
		`INSERT INTO sync_history (run_id, op, name, photo_id, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.runID, string(op), name, photoID, status, message, j.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(limit int) ([]*Entry, error) {
	if j.db == nil {
		return nil, ErrJournalClosed
	}
	if limit <= 0 {
		return []*Entry{}, nil
	}

	var rows []dbEntry
	err := j.db.Select(&rows,
		`SELECT id, run_id, op, name, photo_id, status, error, created_at
		FROM sync_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	entries := make([]*Entry, 0, len(rows))
	for _, row := range rows {
		created, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored timestamp for entry %d: %w", row.ID, err)
		}
		entry := row.Entry
		entry.CreatedAt = created
		entries = append(entries, &entry)
	}
	return entries, nil
}

// Count returns the number of stored entries across all runs.
func (j *Journal) Count() (int, error) {
	if j.db == nil {
		return 0, ErrJournalClosed
	}

	var count int
	if err := j.db.Get(&count, "SELECT COUNT(*) FROM sync_history"); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}
