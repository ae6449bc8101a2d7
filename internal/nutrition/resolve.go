// Package nutrition resolves mentions against the catalog, folds them into
// nutrient totals and judges the totals against a daily calorie budget.
package nutrition

import (
	"github.com/jinzhu/inflection"

	"mcp-calorie-calc/internal/models"
)

// Catalog is the read side of the reference table the resolver needs.
type Catalog interface {
	First(substr string) (models.CatalogEntry, bool)
	Suggest(name string, max int, cutoff float64) []string
}

type Resolver struct {
	catalog          Catalog
	singularFallback bool
	maxSuggestions   int
	cutoff           float64
}

type ResolverOption func(*Resolver)

// WithSingularFallback makes a miss retry once with the singular form of the
// item name ("nuggets" → "nugget") before falling back to suggestions.
func WithSingularFallback(on bool) ResolverOption {
	return func(r *Resolver) { r.singularFallback = on }
}

// WithSuggestions sets how many names a miss suggests and the similarity cutoff.
func WithSuggestions(max int, cutoff float64) ResolverOption {
	return func(r *Resolver) {
		r.maxSuggestions = max
		r.cutoff = cutoff
	}
}

func NewResolver(catalog Catalog, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		catalog:        catalog,
		maxSuggestions: 3,
		cutoff:         0.6,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve matches one mention to the first catalog entry containing its item
// name. A miss carries similarity suggestions and is never an error.
func (r *Resolver) Resolve(m models.Mention) models.Resolution {
	if e, ok := r.catalog.First(m.ItemName); ok {
		return models.Resolution{Mention: m, Entry: &e}
	}
	if r.singularFallback {
		if s := inflection.Singular(m.ItemName); s != m.ItemName {
			if e, ok := r.catalog.First(s); ok {
				return models.Resolution{Mention: m, Entry: &e}
			}
		}
	}
	return models.Resolution{
		Mention:     m,
		Suggestions: r.catalog.Suggest(m.ItemName, r.maxSuggestions, r.cutoff),
	}
}

// ResolveAll resolves mentions one at a time, keeping their order.
func (r *Resolver) ResolveAll(mentions []models.Mention) []models.Resolution {
	out := make([]models.Resolution, len(mentions))
	for i, m := range mentions {
		out[i] = r.Resolve(m)
	}
	return out
}
