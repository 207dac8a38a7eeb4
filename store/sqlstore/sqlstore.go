// Package sqlstore archives saved plot states in a SQLite database.
//
// A state is stored under a name as the recorded bytes of its buffer.
// Loading it back yields a valid plot.SavedState that can be installed
// into any stream with RestoreState or SwitchState.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gogpu/plot"
)

// ErrNotFound is returned when no state is stored under a name.
var ErrNotFound = errors.New("sqlstore: state not found")

// ErrInvalidState is returned by Put for a nil or invalid state.
var ErrInvalidState = errors.New("sqlstore: invalid state")

const schema = `
CREATE TABLE IF NOT EXISTS states (
    name  TEXT PRIMARY KEY,
    top   INTEGER NOT NULL,
    saved INTEGER NOT NULL,   -- UnixNano
    data  BLOB NOT NULL
);
`

// Entry describes a stored state.
type Entry struct {
	Name  string
	Size  int // recorded bytes
	Saved time.Time
}

// Store is a SQLite archive of saved states. It is safe for concurrent
// use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the archive at path. The directory is created if
// needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlstore: create directory: %w", err)
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore: connect: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore: create schema: %w", err)
	}
	plot.Logger().Debug("sqlstore: opened", "path", path)
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores the recorded bytes of st under name, replacing any state
// already stored there. st stays valid.
func (s *Store) Put(ctx context.Context, name string, st *plot.SavedState) error {
	if !st.Valid() {
		return ErrInvalidState
	}
	data := st.Bytes()
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO states (name, top, saved, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET top = excluded.top, saved = excluded.saved, data = excluded.data`,
		name, st.Top(), s.now().UnixNano(), data)
	if err != nil {
		return fmt.Errorf("sqlstore: put %q: %w", name, err)
	}
	return nil
}

// Get loads the state stored under name.
func (s *Store) Get(ctx context.Context, name string) (*plot.SavedState, error) {
	var (
		top  int
		data []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT top, data FROM states WHERE name = ?`, name).Scan(&top, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: get %q: %w", name, err)
	}
	if top != len(data) {
		return nil, fmt.Errorf("sqlstore: get %q: stored size %d, have %d bytes", name, top, len(data))
	}
	return plot.NewSavedState(data, top), nil
}

// List returns the stored states ordered by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, top, saved FROM states ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e     Entry
			saved int64
		)
		if err := rows.Scan(&e.Name, &e.Size, &saved); err != nil {
			return nil, fmt.Errorf("sqlstore: list: %w", err)
		}
		e.Saved = time.Unix(0, saved)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes the state stored under name. Deleting a missing state
// returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM states WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("sqlstore: delete %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: delete %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
