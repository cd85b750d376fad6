// Package store persists connection records in a single-table SQLite
// database. Every operation opens its own connection and closes it before
// returning, so concurrent signups for the same address resolve through
// SQLite's unique-constraint enforcement at insert time.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrAlreadyConnected is returned by Insert when the email is already
// registered. It is a benign condition, not a failure: re-signup is an
// idempotent user action.
var ErrAlreadyConnected = errors.New("email already connected")

// Connections provides access to the connection-record table.
// It holds only the database path; see Insert/Counts for the
// per-operation connection lifecycle.
type Connections struct {
	path   string
	openFn func() (*sql.DB, error)
}

// New creates a Connections store backed by the SQLite file at path.
// The file is created on first Init.
func New(path string) *Connections {
	c := &Connections{path: path}
	c.openFn = c.openSQLite
	return c
}

func (c *Connections) openSQLite() (*sql.DB, error) {
	// busy_timeout covers the rare write-write overlap between two
	// simultaneous signups; SQLite permits a single writer at a time.
	db, err := sql.Open("sqlite3", c.path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", c.path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database %s: %w", c.path, err)
	}
	return db, nil
}

// withConn runs fn against a freshly opened connection and guarantees the
// connection is closed on every exit path, including errors.
func (c *Connections) withConn(fn func(*sql.DB) error) error {
	db, err := c.openFn()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

// Init ensures the connections table exists. Idempotent: safe to invoke on
// every startup against an existing database file.
//
// consciousness_level and last_pulse are reserved columns carried over from
// earlier deployments; nothing reads or writes them.
func (c *Connections) Init(ctx context.Context) error {
	return c.withConn(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS connections (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				email TEXT UNIQUE NOT NULL,
				joined_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				consciousness_level INTEGER DEFAULT 1,
				last_pulse TIMESTAMP
			)
		`)
		if err != nil {
			return fmt.Errorf("create connections table: %w", err)
		}
		return nil
	})
}

// Insert records a new connection and returns its assigned id.
// Returns ErrAlreadyConnected if the email is already registered.
// The email must be normalized (trimmed, lowercased) by the caller.
func (c *Connections) Insert(ctx context.Context, email string) (int64, error) {
	var id int64
	err := c.withConn(func(db *sql.DB) error {
		res, err := db.ExecContext(ctx,
			`INSERT INTO connections (email) VALUES (?)`, email)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyConnected
			}
			return fmt.Errorf("insert connection: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("read inserted id: %w", err)
		}
		return nil
	})
	return id, err
}

// Counts returns the total number of connections and the number whose
// joined_at falls within the trailing 24-hour window. Both counts come
// from the same connection so they see a consistent snapshot.
func (c *Connections) Counts(ctx context.Context) (total, recent int64, err error) {
	err = c.withConn(func(db *sql.DB) error {
		if err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM connections`).Scan(&total); err != nil {
			return fmt.Errorf("count connections: %w", err)
		}
		if err := db.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM connections
			WHERE joined_at > datetime('now', '-1 day')
		`).Scan(&recent); err != nil {
			return fmt.Errorf("count recent connections: %w", err)
		}
		return nil
	})
	return total, recent, err
}

// isUniqueViolation reports whether err is a SQLite unique-constraint error.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}
