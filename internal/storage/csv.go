// internal/storage/csv.go
package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CSVSource reads a nutrient table from a CSV file whose first record is the header.
type CSVSource struct {
	Path   string
	Origin string
}

func (s *CSVSource) Name() string {
	return originOr(s.Origin, s.Path)
}

func (s *CSVSource) Read(ctx context.Context) (*Table, error) {
	f, err := os.Open(filepath.Clean(s.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open csv source: %w", err)
	}
	defer f.Close()

	return readCSV(ctx, f, s.Name())
}

func readCSV(ctx context.Context, r io.Reader, origin string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv source %s has no header", origin)
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	table := newTable(origin, header)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		table.appendRow(record)
	}

	return table, nil
}
