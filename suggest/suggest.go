// Package suggest implements a spell-tolerant index over a fixed set of
// names: given an unrecognized input, it ranks the known names by string
// similarity. It is deliberately policy-free — it returns a ranked slice
// and leaves it to the caller whether (and how) to present it.
package suggest

import (
	"sort"

	"github.com/antzucaro/matchr"
)

// Suggester ranks candidate names against a misspelled query.
type Suggester struct {
	names []string
}

// New returns a Suggester over names, the full universe of valid
// command/handler names.
func New(names []string) *Suggester {
	cp := make([]string, len(names))
	copy(cp, names)
	return &Suggester{names: cp}
}

type scored struct {
	name  string
	score float64
}

// Rank returns up to topN names from the index, ordered by descending
// Jaro-Winkler similarity to query, ties broken by ascending Levenshtein
// distance then lexically.
func (s *Suggester) Rank(query string, topN int) []string {
	if s == nil || len(s.names) == 0 {
		return nil
	}
	results := make([]scored, len(s.names))
	for i, name := range s.names {
		results[i] = scored{name: name, score: matchr.JaroWinkler(query, name, true)}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		di := matchr.Levenshtein(query, results[i].name)
		dj := matchr.Levenshtein(query, results[j].name)
		if di != dj {
			return di < dj
		}
		return results[i].name < results[j].name
	})
	if topN > len(results) {
		topN = len(results)
	}
	out := make([]string, topN)
	for i := 0; i < topN; i++ {
		out[i] = results[i].name
	}
	return out
}
