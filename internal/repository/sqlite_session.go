package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/alexanderramin/timebox/internal/db"
	"github.com/alexanderramin/timebox/internal/domain"
)

// SQLiteSessionRepo stores records in the sessions table of a SQLite file,
// keyed by position.
type SQLiteSessionRepo struct {
	path   string
	newUoW func(*sql.DB) db.UnitOfWork
}

// SQLiteOption configures a SQLiteSessionRepo.
type SQLiteOption func(*SQLiteSessionRepo)

// WithUnitOfWork overrides how Save obtains its transaction boundary.
func WithUnitOfWork(fn func(*sql.DB) db.UnitOfWork) SQLiteOption {
	return func(r *SQLiteSessionRepo) { r.newUoW = fn }
}

// NewSQLiteSessionRepo creates a SQLiteSessionRepo for the database at path.
func NewSQLiteSessionRepo(path string, opts ...SQLiteOption) *SQLiteSessionRepo {
	r := &SQLiteSessionRepo{
		path: path,
		newUoW: func(database *sql.DB) db.UnitOfWork {
			return db.NewSQLiteUnitOfWork(database)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SQLiteSessionRepo) Path() string { return r.path }

// Load reads the sessions table without writing to the file. A missing or
// zero-length file is an empty store; a database without a sessions table
// is corrupt.
func (r *SQLiteSessionRepo) Load(ctx context.Context) ([]domain.Record, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	database, err := db.OpenReadOnly(r.path)
	if err != nil {
		return nil, corruptf("%v", err)
	}
	defer database.Close()

	ok, err := db.HasTable(database, "sessions")
	if err != nil {
		return nil, corruptf("reading schema: %v", err)
	}
	if !ok {
		return nil, corruptf("no sessions table in %s", r.path)
	}
	return listRecords(ctx, database)
}

func (r *SQLiteSessionRepo) Save(ctx context.Context, records []domain.Record) error {
	database, err := db.OpenDB(r.path)
	if err != nil {
		return err
	}
	defer database.Close()

	return r.newUoW(database).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
			return fmt.Errorf("clearing sessions: %w", err)
		}
		query := `INSERT INTO sessions (position, title, start_time, end_time, description)
			VALUES (?, ?, ?, ?, ?)`
		for i, rec := range records {
			if _, err := tx.ExecContext(ctx, query,
				i, rec.Title, rec.StartTime, rec.EndTime, rec.Description,
			); err != nil {
				return fmt.Errorf("inserting session %d: %w", i, err)
			}
		}
		return nil
	})
}

func listRecords(ctx context.Context, q db.DBTX) ([]domain.Record, error) {
	query := `SELECT title, start_time, end_time, description FROM sessions ORDER BY position`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, corruptf("listing sessions: %v", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// scanRecords scans session rows. Rows whose columns do not scan as text are
// reported as corrupt.
func scanRecords(rows *sql.Rows) ([]domain.Record, error) {
	var records []domain.Record
	for rows.Next() {
		var rec domain.Record
		var desc sql.NullString
		if err := rows.Scan(&rec.Title, &rec.StartTime, &rec.EndTime, &desc); err != nil {
			return nil, corruptf("scanning session row: %v", err)
		}
		rec.Description = desc.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, corruptf("iterating sessions: %v", err)
	}
	return records, nil
}
