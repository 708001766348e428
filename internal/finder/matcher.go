package finder

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// Matcher selects the items matching a query.
// Implementations must be deterministic and keep no state between calls.
type Matcher interface {
	Filter(items []string, query string) []string
}

// MatcherFunc adapts a plain function to the Matcher interface
type MatcherFunc func(items []string, query string) []string

// Filter calls f(items, query)
func (f MatcherFunc) Filter(items []string, query string) []string {
	return f(items, query)
}

// FuzzyMatcher matches items as case-insensitive subsequences of the query.
// By default the result keeps the relative order of the input; with Ranked
// set the best scoring matches come first.
type FuzzyMatcher struct {
	Ranked bool
}

// Filter returns the items matching query
func (m FuzzyMatcher) Filter(items []string, query string) []string {
	if query == "" {
		out := make([]string, len(items))
		copy(out, items)
		return out
	}

	matches := fuzzy.Find(query, items)
	if !m.Ranked {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Index < matches[j].Index
		})
	}

	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, items[match.Index])
	}
	return out
}
