package nutrition

import (
	"sort"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Default matching policy. Resolution is stricter than suggestion listing.
const (
	DefaultResolveThreshold = 85
	DefaultSuggestMinScore  = 75
	DefaultSuggestLimit     = 4
)

// Resolver performs fuzzy food-name resolution against a Table.
type Resolver struct {
	table *Table
}

// NewResolver creates a Resolver over the given table.
func NewResolver(table *Table) *Resolver {
	return &Resolver{table: table}
}

// Resolve finds the single best-matching record for a free-text food name.
// The query is normalized, then scored against every known name with a
// token-set similarity metric (0-100). The match is returned only when the
// best score reaches threshold; ties keep the earliest dataset entry.
// An empty query or empty table is a miss, not an error.
func (r *Resolver) Resolve(query string, threshold int) (Record, bool) {
	q := Normalize(query)
	if q == "" || r.table.Len() == 0 {
		return Record{}, false
	}
	// Exact matches short-circuit with an implicit top score.
	if rec, ok := r.table.Lookup(q); ok {
		return rec, true
	}

	best := -1
	bestName := ""
	for _, name := range r.table.Names() {
		score := fuzzy.TokenSetRatio(q, name)
		if score > best {
			best = score
			bestName = name
		}
	}
	if best < threshold {
		return Record{}, false
	}
	rec, _ := r.table.Lookup(bestName)
	return rec, true
}

// Suggest returns up to limit distinct food names scoring at least minScore
// against the query, ranked by descending score with ties in dataset order.
func (r *Resolver) Suggest(query string, limit, minScore int) []string {
	q := Normalize(query)
	if q == "" || r.table.Len() == 0 || limit <= 0 {
		return nil
	}

	type scored struct {
		name  string
		score int
		order int
	}
	var hits []scored
	for i, name := range r.table.Names() {
		score := fuzzy.TokenSetRatio(q, name)
		if score >= minScore {
			hits = append(hits, scored{name: name, score: score, order: i})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].order < hits[j].order
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}
