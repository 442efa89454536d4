package filter

import (
	"github.com/s0up4200/rezstats/paladins"
)

// Filter defines the basic interface for match filters
type Filter interface {
	// Evaluate checks if a history match satisfies the filter criteria.
	// Runtime errors count as a non-match.
	Evaluate(match paladins.HistoryMatch) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Matches is like Evaluate but surfaces evaluation errors
	Matches(match paladins.HistoryMatch) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// Apply returns the matches that satisfy the filter, preserving input
// order. It stops at the first evaluation error.
func Apply(filter CompiledFilter, matches []paladins.HistoryMatch) ([]paladins.HistoryMatch, error) {
	kept := make([]paladins.HistoryMatch, 0, len(matches))
	for _, match := range matches {
		ok, err := filter.Matches(match)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, match)
		}
	}
	return kept, nil
}
