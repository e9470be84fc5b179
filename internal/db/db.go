// Package db provides access to the single-table job application store.
//
// Every public method opens its own connection, performs its work and closes the
// connection again. No connection outlives a request and no transaction spans
// more than one call; concurrent writers are not coordinated (last writer wins).
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "modernc.org/sqlite"             // registers the "sqlite" database/sql driver
)

// Store drivers accepted by New.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned when no job application matches the given ID.
var ErrNotFound = errors.New("job application not found")

// ErrBackupUnsupported is returned by Backup for drivers without a backing file.
var ErrBackupUnsupported = errors.New("backup is only supported for the sqlite driver")

// DB is the job application store.
type DB struct {
	driver string
	dsn    string
	open   func() (*sql.DB, error)
	now    func() time.Time
}

// New creates a store for the given driver ("sqlite" or "postgres") and data source.
// No connection is opened until the first operation.
func New(driver, dsn string) (*DB, error) {
	var sqlDriver string
	switch driver {
	case DriverSQLite:
		sqlDriver = "sqlite"
	case DriverPostgres:
		sqlDriver = "pgx"
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("data source is empty")
	}

	return &DB{
		driver: driver,
		dsn:    dsn,
		open:   func() (*sql.DB, error) { return sql.Open(sqlDriver, dsn) },
		now:    time.Now,
	}, nil
}

// NewWithOpener creates a store that obtains its connections from open.
// The opener is called once per operation and the returned handle is closed afterwards.
func NewWithOpener(driver string, open func() (*sql.DB, error)) *DB {
	return &DB{driver: driver, open: open, now: time.Now}
}

// WithClock returns a copy of the store that uses now for "today" stamps.
func (db *DB) WithClock(now func() time.Time) *DB {
	c := *db
	c.now = now
	return &c
}

// withConn opens a connection, runs fn and closes the connection.
func (db *DB) withConn(ctx context.Context, fn func(conn *sql.DB) error) error {
	conn, err := db.open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(conn)
}

// withTx runs fn inside a transaction on a fresh connection.
// The transaction is rolled back unless fn succeeds and the commit goes through.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return db.withConn(ctx, func(conn *sql.DB) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		committed := false
		defer func() {
			if !committed {
				_ = tx.Rollback()
			}
		}()

		if err := fn(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		committed = true
		return nil
	})
}

// rebind rewrites '?' placeholders to the driver's native form.
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (db *DB) schema() string {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.driver == DriverPostgres {
		id = "BIGSERIAL PRIMARY KEY"
	}
	return `CREATE TABLE IF NOT EXISTS jobs (
	id                 ` + id + `,
	job_tittle         TEXT NOT NULL,
	company            TEXT NOT NULL,
	city               TEXT,
	date_of_apply      TEXT,
	status             TEXT,
	last_status_update TEXT,
	tags               TEXT
)`
}

// Init creates the jobs table if it does not exist.
func (db *DB) Init(ctx context.Context) error {
	return db.withConn(ctx, func(conn *sql.DB) error {
		if _, err := conn.ExecContext(ctx, db.schema()); err != nil {
			return fmt.Errorf("failed to create jobs table: %w", err)
		}
		return nil
	})
}

// Reset drops and recreates the jobs table. All records are lost.
func (db *DB) Reset(ctx context.Context) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS jobs`); err != nil {
			return fmt.Errorf("failed to drop jobs table: %w", err)
		}
		if _, err := tx.ExecContext(ctx, db.schema()); err != nil {
			return fmt.Errorf("failed to create jobs table: %w", err)
		}
		return nil
	})
}
