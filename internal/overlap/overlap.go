// Package overlap reconciles highlights proposed by multiple independent
// producers into a non-overlapping, document-ordered set.
package overlap

import (
	"sort"

	"highlight-resolver/internal/highlight"
)

// Reconcile sorts highlights by (start asc, end asc, priority desc, id) and
// greedily keeps each one whose range is disjoint from everything already
// kept — classic interval-scheduling selection. The ordering is total, so
// the result is deterministic and stable under re-runs regardless of the
// input order; at equal priority the earlier start always wins.
//
// The input is not mutated. Dropped highlights are simply absent from the
// result; highlights are never edited.
func Reconcile(hs []highlight.Highlight) []highlight.Highlight {
	sorted := make([]highlight.Highlight, 0, len(hs))
	for _, h := range hs {
		if h.Span.Valid {
			sorted = append(sorted, h)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		if a.Span.End != b.Span.End {
			return a.Span.End < b.Span.End
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.ID < b.ID
	})

	// Kept highlights are disjoint and start-ordered, so their ends are
	// strictly increasing and only the last one can intersect a newcomer.
	kept := make([]highlight.Highlight, 0, len(sorted))
	for _, h := range sorted {
		if len(kept) == 0 || kept[len(kept)-1].Span.End <= h.Span.Start {
			kept = append(kept, h)
		}
	}
	return kept
}
