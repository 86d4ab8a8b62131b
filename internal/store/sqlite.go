// Package store persists synthesized jobs in SQLite.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrNotFound is returned when no job has the requested id.
var ErrNotFound = errors.New("store: job not found")

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
    id         TEXT PRIMARY KEY,
    kind       TEXT NOT NULL,
    hash       TEXT NOT NULL UNIQUE,
    params     TEXT NOT NULL,
    gcode      TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

// Job is one synthesis request and its result.
type Job struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Hash      string    `json:"hash"`
	Params    string    `json:"params"`
	Gcode     string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	db *sql.DB
}

// New wraps an open database and applies the schema.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Open opens (creating if needed) the SQLite database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	s, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenSQLite opens the sqlite database at path.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Hash identifies a request by its kind, parameters and input bytes.
func Hash(kind string, params, input []byte) string {
	h := sha256.New()
	for _, part := range [][]byte{[]byte(kind), params, input} {
		fmt.Fprintf(h, "%d:", len(part))
		h.Write(part)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FindByHash returns the job stored under hash.
func (s *Store) FindByHash(ctx context.Context, hash string) (*Job, error) {
	return s.scan(s.db.QueryRowContext(ctx, `
        SELECT id, kind, hash, params, gcode, created_at
        FROM jobs
        WHERE hash = ?
    `, hash))
}

// Get returns the job with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	return s.scan(s.db.QueryRowContext(ctx, `
        SELECT id, kind, hash, params, gcode, created_at
        FROM jobs
        WHERE id = ?
    `, id))
}

func (s *Store) scan(row *sql.Row) (*Job, error) {
	var (
		j       Job
		created string
	)
	if err := row.Scan(&j.ID, &j.Kind, &j.Hash, &j.Params, &j.Gcode, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: scan job: %w", err)
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, fmt.Errorf("store: job %s: created_at: %w", j.ID, err)
	}
	j.CreatedAt = t
	return &j, nil
}

// Save stores j under a fresh id and returns it. A job with the same hash
// is not stored twice: the existing job is returned with created false.
func (s *Store) Save(ctx context.Context, j Job) (saved *Job, created bool, err error) {
	if old, err := s.FindByHash(ctx, j.Hash); err == nil {
		return old, false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	j.ID = uuid.NewString()
	j.CreatedAt = time.Now().UTC().Truncate(time.Second)
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO jobs (id, kind, hash, params, gcode, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, j.ID, j.Kind, j.Hash, j.Params, j.Gcode, j.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, false, fmt.Errorf("store: insert job: %w", err)
	}
	return &j, true, nil
}
