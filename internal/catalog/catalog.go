// Package catalog holds the read-only reference table of known food items.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mcp-calorie-calc/internal/logger"
	"mcp-calorie-calc/internal/models"
	"mcp-calorie-calc/internal/storage"
)

// Catalog is immutable once built and safe for concurrent readers.
type Catalog struct {
	entries []models.CatalogEntry
	// runes of each entry name, split once for the similarity matcher
	chars [][]string
}

// New builds a catalog from entries already in memory. Names are normalized and
// entries with a blank name are dropped.
func New(entries []models.CatalogEntry) (*Catalog, error) {
	c := &Catalog{}
	for _, e := range entries {
		c.add(e)
	}
	if len(c.entries) == 0 {
		return nil, &LoadError{Reason: ErrNoRows}
	}
	return c, nil
}

// Load reads every source in the given order and concatenates their rows.
// Sources that cannot be read are skipped; the load fails only when none can
// be read or nothing usable comes out of them.
func Load(ctx context.Context, sources ...storage.Source) (*Catalog, error) {
	log := logger.FromContext(ctx)
	c := &Catalog{}

	var causes []error
	readable := 0
	for _, src := range sources {
		table, err := src.Read(ctx)
		if err != nil {
			log.Warn("Skipping unreadable nutrient source",
				zap.String("source", src.Name()), zap.Error(err))
			causes = append(causes, fmt.Errorf("source %s: %w", src.Name(), err))
			continue
		}
		readable++

		cols := mapColumns(table.Columns)
		if missing := cols.missing(); len(missing) > 0 {
			log.Debug("Nutrient source lacks columns, treating them as zero",
				zap.String("source", src.Name()), zap.Strings("columns", missing))
		}

		before := len(c.entries)
		for _, row := range table.Rows {
			if cols.name < 0 {
				break
			}
			c.add(models.CatalogEntry{
				Name:      row[cols.name],
				Source:    table.Origin,
				Nutrients: cols.vector(row),
			})
		}
		log.Info("Loaded nutrient source",
			zap.String("source", src.Name()),
			zap.Int("rows", len(table.Rows)),
			zap.Int("entries", len(c.entries)-before),
		)
	}

	if readable == 0 {
		return nil, &LoadError{Reason: ErrNoSources, Causes: causes}
	}
	if len(c.entries) == 0 {
		return nil, &LoadError{Reason: ErrNoRows, Causes: causes}
	}
	return c, nil
}

func (c *Catalog) add(e models.CatalogEntry) {
	e.Name = NormalizeName(e.Name)
	if e.Name == "" {
		return
	}
	c.entries = append(c.entries, e)
	c.chars = append(c.chars, strings.Split(e.Name, ""))
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of all entries in catalog order.
func (c *Catalog) Entries() []models.CatalogEntry {
	out := make([]models.CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Find returns the entries whose name contains substr, ignoring case, in
// catalog order. The match is a plain substring so "burger" finds
// "chicken burger".
func (c *Catalog) Find(substr string) []models.CatalogEntry {
	q := NormalizeName(substr)
	if q == "" {
		return nil
	}

	var out []models.CatalogEntry
	for _, e := range c.entries {
		if strings.Contains(e.Name, q) {
			out = append(out, e)
		}
	}
	return out
}

// First returns the first entry whose name contains substr.
func (c *Catalog) First(substr string) (models.CatalogEntry, bool) {
	q := NormalizeName(substr)
	if q == "" {
		return models.CatalogEntry{}, false
	}
	for _, e := range c.entries {
		if strings.Contains(e.Name, q) {
			return e, true
		}
	}
	return models.CatalogEntry{}, false
}
