package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver registration.

	"academyscope/internal/collation"
	"academyscope/internal/model"
	"academyscope/migrations"
)

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sqlx.DB
}

type options struct {
	migrate  bool
	writable bool
}

// Option configures NewSQLite.
type Option func(*options)

// WithMigrations applies pending schema migrations after opening. Without
// it the connection is switched to query-only mode.
func WithMigrations() Option {
	return func(o *options) { o.migrate = true }
}

// Writable leaves the connection writable without applying migrations, for
// tools that manage the schema themselves.
func Writable() Option {
	return func(o *options) { o.writable = true }
}

// ReadOnlyDSN returns a DSN that opens path read-only and fails if the file
// does not exist.
func ReadOnlyDSN(path string) string {
	return "file:" + path + "?mode=ro"
}

// NewSQLite opens the SQLite database at dsn.
func NewSQLite(dsn string, opts ...Option) (*SQLite, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One handle for the process lifetime; this also keeps :memory:
	// databases alive across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if o.migrate {
		if err := migrations.Run(db.DB); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	} else if !o.writable {
		if _, err := db.Exec("PRAGMA query_only = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set query only: %w", err)
		}
	}

	return &SQLite{db: db}, nil
}

// DB returns the underlying database handle.
func (s *SQLite) DB() *sql.DB {
	return s.db.DB
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Query runs query and returns every row as a map keyed by column name.
// Text columns are returned as strings.
func (s *SQLite) Query(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, wrapQueryErr("run query", err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("iterate rows", err)
	}
	return out, nil
}

// ListUniversities returns every university, Turkish-collated by name.
func (s *SQLite) ListUniversities(ctx context.Context) ([]model.University, error) {
	var unis []model.University
	err := s.db.SelectContext(ctx, &unis, `SELECT UniversiteID, UniversiteAdi FROM Universiteler`)
	if err != nil {
		return nil, wrapQueryErr("list universities", err)
	}
	slices.SortStableFunc(unis, func(a, b model.University) int {
		return collation.Compare(a.Name, b.Name)
	})
	return unis, nil
}

// ListDepartments returns the distinct program names of the standard table,
// cut at the first parenthesis and trimmed, Turkish-collated.
func (s *SQLite) ListDepartments(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names,
		`SELECT DISTINCT TRIM(CASE WHEN instr(ProgramAdi, '(') > 0
		                           THEN substr(ProgramAdi, 1, instr(ProgramAdi, '(') - 1)
		                           ELSE ProgramAdi END) AS name
		 FROM YKS`,
	)
	if err != nil {
		return nil, wrapQueryErr("list departments", err)
	}
	names = slices.DeleteFunc(names, func(n string) bool { return strings.TrimSpace(n) == "" })
	slices.SortStableFunc(names, collation.Compare)
	return names, nil
}

// wrapQueryErr marks errors caused by a closed handle as ErrUnavailable.
func wrapQueryErr(op string, err error) error {
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}
