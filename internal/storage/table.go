// internal/storage/table.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by NewSource for an unknown source format.
var ErrUnsupportedFormat = errors.New("unsupported source format")

// Table is a row-oriented table with named columns. Every row is aligned with
// Columns; short rows are padded with empty cells.
type Table struct {
	Origin  string
	Columns []string
	Rows    [][]string
}

// Source supplies one nutrient table.
type Source interface {
	Name() string
	Read(ctx context.Context) (*Table, error)
}

// SourceSpec describes a source as it appears in configuration.
type SourceSpec struct {
	Path   string
	Format string // csv, sqlite; inferred from the extension when empty
	Table  string // sqlite only
	Origin string
}

// NewSource builds a Source from a spec.
func NewSource(spec SourceSpec) (Source, error) {
	format := strings.ToLower(spec.Format)
	if format == "" {
		switch strings.ToLower(filepath.Ext(spec.Path)) {
		case ".csv":
			format = "csv"
		case ".db", ".sqlite", ".sqlite3":
			format = "sqlite"
		}
	}

	switch format {
	case "csv":
		return &CSVSource{Path: spec.Path, Origin: spec.Origin}, nil
	case "sqlite":
		return &SQLiteSource{Path: spec.Path, Table: spec.Table, Origin: spec.Origin}, nil
	default:
		return nil, fmt.Errorf("%w: %q for %s", ErrUnsupportedFormat, spec.Format, spec.Path)
	}
}

func newTable(origin string, columns []string) *Table {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
	}
	return &Table{Origin: origin, Columns: cols}
}

func (t *Table) appendRow(cells []string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

func originOr(origin, path string) string {
	if origin != "" {
		return origin
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
