// Package services contains stateless domain services for the inventory
// bounded context: the search-filter language, the item visibility predicate,
// the derived-statistics aggregators, and the bulk-edit set arithmetic.
// Everything here is a pure function over domain types with zero external
// dependencies beyond stdlib and the domain layer.
package services

import (
	"strings"
	"unicode/utf8"
)

// FilterType discriminates what part of an item a search filter matches.
type FilterType byte

const (
	// FilterName matches a lowercase substring of the item name.
	FilterName FilterType = 'n'
	// FilterTag matches an exact tag name.
	FilterTag FilterType = 't'
	// FilterLocation matches an exact location name.
	FilterLocation FilterType = 'l'
)

// Filter is one parsed predicate of a search string. All filters of a search
// must match for an item to stay visible (logical AND).
type Filter struct {
	Type FilterType
	Term string
}

// minClauseLen is the shortest clause (in runes, after trimming) that still
// produces a filter; anything shorter is dropped silently.
const minClauseLen = 3

// ParseSearch parses a free-text search string into an ordered filter list.
//
// Clauses are comma-separated; each clause is trimmed and lowercased and
// then dropped when shorter than three runes. A clause whose second byte is
// exactly '.' and whose first byte is one of 't', 'l' or 'n' becomes a typed
// filter over the rest of the clause (trimmed); every other clause becomes a
// name filter over the whole clause. Malformed input never errors: it either
// degenerates to a name filter or is dropped, so an empty or whitespace-only
// search yields an empty list, meaning "match everything".
func ParseSearch(text string) []Filter {
	var filters []Filter
	for _, clause := range strings.Split(text, ",") {
		clause = strings.ToLower(strings.TrimSpace(clause))
		if utf8.RuneCountInString(clause) < minClauseLen {
			continue
		}
		if clause[1] == '.' {
			switch FilterType(clause[0]) {
			case FilterTag, FilterLocation, FilterName:
				// The term is kept even when it is junk (e.g. "t.." yields
				// the term "."); a term matching no stored name simply
				// filters everything out.
				filters = append(filters, Filter{
					Type: FilterType(clause[0]),
					Term: strings.TrimSpace(clause[2:]),
				})
				continue
			}
		}
		filters = append(filters, Filter{Type: FilterName, Term: clause})
	}
	return filters
}

// SearchString reconstructs a canonical search string from a filter list:
// comma-joined "type.term" clauses. The result is not byte-identical to the
// original input (whitespace and case are normalized) but re-parses to an
// equivalent filter list. Used to prepend extra clauses when the user clicks
// a tag or location chip.
func SearchString(filters []Filter) string {
	clauses := make([]string, len(filters))
	for i, f := range filters {
		clauses[i] = string(f.Type) + "." + f.Term
	}
	return strings.Join(clauses, ",")
}
