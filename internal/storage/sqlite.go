// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"
)

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteStorage gives read access to nutrient tables kept in a SQLite file.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens an existing database read-only. A missing file is an
// error rather than an empty new database.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}

	db, err := sql.Open("sqlite", readOnlyDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

//nolint:gochecknoglobals // URI escapes for sqlite file names
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// readOnlyDSN builds a file: URI so sqlite itself enforces mode=ro.
func readOnlyDSN(path string) string {
	return "file:" + uriEscaper.Replace(filepath.ToSlash(path)) + "?mode=ro"
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// ReadTable returns every row of the named table in rowid order.
func (s *SQLiteStorage) ReadTable(ctx context.Context, name, origin string) (*Table, error) {
	if !identRegex.MatchString(name) {
		return nil, fmt.Errorf("invalid table name %q", name)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s" ORDER BY rowid`, name))
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	table := newTable(origin, columns)
	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		cells := make([]string, len(values))
		for i, v := range values {
			if v.Valid {
				cells[i] = v.String
			}
		}
		table.appendRow(cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return table, nil
}

// SQLiteSource reads one table out of a SQLite database file.
type SQLiteSource struct {
	Path   string
	Table  string
	Origin string
}

func (s *SQLiteSource) Name() string {
	if s.Origin != "" {
		return s.Origin
	}
	return originOr("", s.Path) + "." + s.tableName()
}

func (s *SQLiteSource) tableName() string {
	if s.Table == "" {
		return "foods"
	}
	return s.Table
}

func (s *SQLiteSource) Read(ctx context.Context) (*Table, error) {
	stor, err := NewSQLiteStorage(s.Path)
	if err != nil {
		return nil, err
	}
	defer stor.Close()

	return stor.ReadTable(ctx, s.tableName(), s.Name())
}
