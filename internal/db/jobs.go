package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/job-tracker/internal/types"
)

const selectColumns = `SELECT id, job_tittle, company,
	COALESCE(city, ''), COALESCE(date_of_apply, ''), COALESCE(status, ''),
	COALESCE(last_status_update, ''), COALESCE(tags, '')
	FROM jobs`

const insertJob = `INSERT INTO jobs (job_tittle, company, city, date_of_apply, status, last_status_update, tags)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	RETURNING id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (types.JobApplication, error) {
	var j types.JobApplication
	err := row.Scan(&j.ID, &j.Title, &j.Company, &j.City, &j.DateOfApply, &j.Status, &j.LastStatusUpdate, &j.Tags)
	return j, err
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (db *DB) insertOne(ctx context.Context, q queryer, f types.ApplicationFields) (int64, error) {
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Company) == "" {
		return 0, fmt.Errorf("job_tittle and company are required")
	}

	var id int64
	err := q.QueryRowContext(ctx, db.rebind(insertJob),
		f.Title, f.Company, f.City, f.DateOfApply, f.Status, f.LastStatusUpdate, f.Tags,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert job application: %w", err)
	}
	return id, nil
}

// Insert stores a new job application and returns its assigned ID.
func (db *DB) Insert(ctx context.Context, f types.ApplicationFields) (int64, error) {
	var id int64
	err := db.withConn(ctx, func(conn *sql.DB) error {
		var err error
		id, err = db.insertOne(ctx, conn, f)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// InsertMany stores all records in a single transaction.
// Either every record is inserted or, on the first error, none are.
func (db *DB) InsertMany(ctx context.Context, records []types.ApplicationFields) ([]int64, error) {
	if len(records) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(records))
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		for i, f := range records {
			id, err := db.insertOne(ctx, tx, f)
			if err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateStatus sets a new status and stamps last_status_update with today's date.
func (db *DB) UpdateStatus(ctx context.Context, id int64, status string) error {
	today := db.now().Format(types.DateLayout)
	return db.withConn(ctx, func(conn *sql.DB) error {
		res, err := conn.ExecContext(ctx,
			db.rebind(`UPDATE jobs SET status = ?, last_status_update = ? WHERE id = ?`),
			status, today, id,
		)
		if err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Delete physically removes a job application. Deleting an unknown ID is not an error.
func (db *DB) Delete(ctx context.Context, id int64) error {
	return db.withConn(ctx, func(conn *sql.DB) error {
		if _, err := conn.ExecContext(ctx, db.rebind(`DELETE FROM jobs WHERE id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete job application %d: %w", id, err)
		}
		return nil
	})
}

// List returns job applications newest first. A non-empty search restricts the
// result to records whose title or company contains it, ignoring case.
// SQLite's LOWER only folds ASCII, so on SQLite the match is done in Go.
func (db *DB) List(ctx context.Context, search string) ([]types.JobApplication, error) {
	if search == "" {
		return db.query(ctx, selectColumns+` ORDER BY date_of_apply DESC`)
	}

	needle := strings.ToLower(search)
	if db.driver == DriverPostgres {
		pattern := "%" + escapeLike(needle) + "%"
		return db.query(ctx,
			selectColumns+` WHERE LOWER(job_tittle) LIKE ? ESCAPE '\' OR LOWER(company) LIKE ? ESCAPE '\'
		ORDER BY date_of_apply DESC`,
			pattern, pattern,
		)
	}

	jobs, err := db.query(ctx, selectColumns+` ORDER BY date_of_apply DESC`)
	if err != nil {
		return nil, err
	}
	matched := make([]types.JobApplication, 0, len(jobs))
	for _, j := range jobs {
		if containsFold(j.Title, needle) || containsFold(j.Company, needle) {
			matched = append(matched, j)
		}
	}
	return matched, nil
}

// containsFold reports whether s contains the already lower-cased needle, ignoring case.
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

// ListRange returns job applications applied for between start and end inclusive,
// oldest first. Dates are compared as ISO-8601 text, which sorts chronologically.
func (db *DB) ListRange(ctx context.Context, start, end string) ([]types.JobApplication, error) {
	return db.query(ctx,
		selectColumns+` WHERE date_of_apply BETWEEN ? AND ? ORDER BY date_of_apply ASC`,
		start, end,
	)
}

// ListAll returns every job application in store order.
func (db *DB) ListAll(ctx context.Context) ([]types.JobApplication, error) {
	return db.query(ctx, selectColumns+` ORDER BY id ASC`)
}

func (db *DB) query(ctx context.Context, query string, args ...any) ([]types.JobApplication, error) {
	var jobs []types.JobApplication
	err := db.withConn(ctx, func(conn *sql.DB) error {
		rows, err := conn.QueryContext(ctx, db.rebind(query), args...)
		if err != nil {
			return fmt.Errorf("failed to list job applications: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			j, err := scanJob(rows)
			if err != nil {
				return fmt.Errorf("failed to scan job application: %w", err)
			}
			jobs = append(jobs, j)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// Backup writes a raw copy of the SQLite database file to w.
func (db *DB) Backup(_ context.Context, w io.Writer) error {
	if db.driver != DriverSQLite || db.dsn == "" {
		return ErrBackupUnsupported
	}

	f, err := os.Open(db.dsn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", db.dsn)
		}
		return fmt.Errorf("failed to open database file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to copy database file: %w", err)
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
