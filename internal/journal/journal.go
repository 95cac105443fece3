// Package journal keeps an append-only SQLite history of committed billing
// operations.
package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/leapstack-labs/leapledger/pkg/core"

	// sqlite driver (pure Go)
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory journal.
const MemoryPath = ":memory:"

var errNotOpen = errors.New("journal not opened")

// Journal implements core.Journal on SQLite.
type Journal struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

var _ core.Journal = (*Journal)(nil)

// Open opens (creating if needed) the journal database at path.
// Migrate must be called before use.
func Open(path string) (*Journal, error) {
	dsn := path
	if path == MemoryPath {
		dsn = ":memory:?_pragma=foreign_keys(1)"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, errors.Wrapf(err, "failed to create journal directory for %s", path)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open journal database")
	}
	if path == MemoryPath {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping journal database")
	}
	return NewWithDB(db, path), nil
}

// NewWithDB wraps an already opened database.
func NewWithDB(db *sql.DB, path string) *Journal {
	return &Journal{
		db:   db,
		path: path,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Path returns the database path.
func (j *Journal) Path() string {
	return j.path
}

// Close closes the database.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Record stores ev, assigning its ID and timestamp.
func (j *Journal) Record(ctx context.Context, ev core.Event) (*core.Event, error) {
	if j.db == nil {
		return nil, errNotOpen
	}

	ev.ID = uuid.New().String()
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = j.now()
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO events (id, kind, customer, phone, amount, monthly, payment, due, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, string(ev.Kind), ev.Customer, ev.Phone,
		ev.Amount, ev.Monthly, ev.Payment, ev.Due,
		ev.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to record %s event", ev.Kind)
	}
	return &ev, nil
}

// List returns up to limit events, newest first. A limit of zero or less
// returns every event.
func (j *Journal) List(ctx context.Context, limit int) ([]*core.Event, error) {
	if j.db == nil {
		return nil, errNotOpen
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, kind, customer, phone, amount, monthly, payment, due, created_at
		 FROM events ORDER BY seq DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list events")
	}
	defer func() { _ = rows.Close() }()

	var events []*core.Event
	for rows.Next() {
		ev := &core.Event{}
		var kind, createdAt string
		if err := rows.Scan(&ev.ID, &kind, &ev.Customer, &ev.Phone,
			&ev.Amount, &ev.Monthly, &ev.Payment, &ev.Due, &createdAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan event")
		}
		ev.Kind = core.EventKind(kind)
		ev.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, errors.Wrapf(err, "event %s has a bad timestamp", ev.ID)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate events")
	}
	return events, nil
}
