// Package storage is the gateway to the SQLite store.
//
// It exposes execute/fetch-one/fetch-many over parameterized statements and
// owns schema creation. Repositories never interpolate caller-supplied
// values into SQL; everything goes through placeholders.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
)

// Store wraps the shared database handle used by all repositories.
type Store struct {
	db *sql.DB
}

// Result reports the outcome of a write statement.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures the schema exists. Initialization is idempotent: tables that
// already exist are left untouched.
func Open(path string, busyTimeout time.Duration) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.Init(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Init creates the customers/vehicles/services schema if it does not
// already exist. The foreign keys are declarative; SQLite runs with
// foreign_keys at its permissive default, so the repository layer is the
// authoritative guard for referential integrity.
func (s *Store) Init(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT,
		address TEXT,
		created_date DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS vehicles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL,
		make TEXT NOT NULL,
		model TEXT NOT NULL,
		year INTEGER NOT NULL,
		license_plate TEXT UNIQUE NOT NULL,
		created_date DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (customer_id) REFERENCES customers (id)
	);

	CREATE TABLE IF NOT EXISTS services (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		vehicle_id INTEGER NOT NULL,
		service_date DATE NOT NULL,
		description TEXT NOT NULL,
		cost DECIMAL(10, 2) NOT NULL,
		status TEXT DEFAULT 'completed',
		created_date DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (vehicle_id) REFERENCES vehicles (id)
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Execute runs a write statement and returns the new row id and the
// number of affected rows.
func (s *Store) Execute(ctx context.Context, stmt string, args ...any) (Result, error) {
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return Result{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Result{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Result{}, err
	}
	return Result{LastInsertID: id, RowsAffected: n}, nil
}

// FetchOne runs a query expected to return at most one row. Absence
// surfaces as sql.ErrNoRows when the row is scanned.
func (s *Store) FetchOne(ctx context.Context, stmt string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, stmt, args...)
}

// FetchMany runs a query returning any number of rows. The caller owns
// closing the result set.
func (s *Store) FetchMany(ctx context.Context, stmt string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, stmt, args...)
}

// Ping verifies the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the shared handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SQLite primary result code for constraint violations plus the extended
// codes a unique index can raise.
const (
	sqliteConstraint           = 19
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// IsUniqueViolation reports whether err is a store-level uniqueness
// constraint failure. Check-then-insert sequences are not transactional,
// so a concurrent writer can slip past the pre-check; the UNIQUE index is
// the backstop and its failure maps to the same Conflict outcome.
func IsUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqliteConstraint, sqliteConstraintPrimaryKey, sqliteConstraintUnique:
		return true
	}
	return false
}
