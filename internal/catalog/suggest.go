package catalog

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	DefaultMaxSuggestions = 3
	DefaultCutoff         = 0.6
)

// Suggest returns up to max distinct catalog names whose similarity ratio to
// name is at least cutoff, most similar first. Equal scores keep catalog order.
// The ratio is the Ratcliff/Obershelp measure 2*M/T over characters.
func (c *Catalog) Suggest(name string, max int, cutoff float64) []string {
	if max <= 0 || cutoff < 0 || cutoff > 1 {
		return nil
	}
	q := NormalizeName(name)
	if q == "" {
		return nil
	}

	type candidate struct {
		name  string
		score float64
	}

	// The matcher caches its analysis of the second sequence, so the query
	// goes there and each catalog name is swapped in as the first.
	m := difflib.NewMatcher(nil, strings.Split(q, ""))
	seen := make(map[string]struct{})
	var found []candidate
	for i, e := range c.entries {
		if _, dup := seen[e.Name]; dup {
			continue
		}
		seen[e.Name] = struct{}{}
		m.SetSeq1(c.chars[i])
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		if score := m.Ratio(); score >= cutoff {
			found = append(found, candidate{name: e.Name, score: score})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].score > found[j].score
	})
	if len(found) > max {
		found = found[:max]
	}

	out := make([]string, len(found))
	for i, f := range found {
		out[i] = f.name
	}
	return out
}

// SuggestDefault is Suggest with three names at a 0.6 cutoff.
func (c *Catalog) SuggestDefault(name string) []string {
	return c.Suggest(name, DefaultMaxSuggestions, DefaultCutoff)
}

// Similarity exposes the ratio used by Suggest.
func Similarity(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(NormalizeName(a), ""), strings.Split(NormalizeName(b), ""))
	return m.Ratio()
}
