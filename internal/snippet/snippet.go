// Package snippet resolves line-anchored highlight requests: a claimed
// start/end line pair plus short verbatim character snippets copied from
// those lines.
//
// Producers routinely count lines off by one, so a snippet that is missing
// from its claimed line is searched on neighboring lines (distance 1, then 2)
// before the request fails. Off by three is treated as a hallucinated
// reference.
package snippet

import (
	"strings"

	"highlight-resolver/internal/highlight"
	"highlight-resolver/internal/lineindex"
)

// NeighborWindow is the number of lines searched on each side of a claimed
// line before giving up.
const NeighborWindow = 2

// Resolve locates the snippet pair and returns the candidate span. Location
// failures come back as data (Valid=false with a SnippetNotFound or
// InvertedRange reason), never as an error, so batches keep going past them.
func Resolve(ix *lineindex.Index, doc string, req highlight.LineSnippet) highlight.ResolvedSpan {
	if req.EndLine < req.StartLine {
		return highlight.Reject(highlight.StrategyLineSnippet,
			"%s: endLine %d precedes startLine %d",
			highlight.ReasonInvertedRange, req.EndLine, req.StartLine)
	}
	if req.StartCharacters == "" || req.EndCharacters == "" {
		return highlight.Reject(highlight.StrategyLineSnippet,
			"%s: start and end snippets must be non-empty", highlight.ReasonSnippetNotFound)
	}

	start, ok := locate(ix, doc, req.StartLine, req.StartCharacters, false)
	if !ok {
		return highlight.Reject(highlight.StrategyLineSnippet,
			"%s: start snippet %q not found on line %d or within %d neighboring lines",
			highlight.ReasonSnippetNotFound, req.StartCharacters, req.StartLine, NeighborWindow)
	}
	endHit, ok := locate(ix, doc, req.EndLine, req.EndCharacters, true)
	if !ok {
		return highlight.Reject(highlight.StrategyLineSnippet,
			"%s: end snippet %q not found on line %d or within %d neighboring lines",
			highlight.ReasonSnippetNotFound, req.EndCharacters, req.EndLine, NeighborWindow)
	}

	end := endHit + len(req.EndCharacters)
	if end <= start {
		return highlight.Reject(highlight.StrategyLineSnippet,
			"%s: end snippet %q at offset %d ends before start snippet %q at offset %d",
			highlight.ReasonInvertedRange, req.EndCharacters, end, req.StartCharacters, start)
	}
	return highlight.ResolvedSpan{
		Start:      start,
		End:        end,
		QuotedText: doc[start:end],
		Strategy:   highlight.StrategyLineSnippet,
		Confidence: 1.0,
		Valid:      true,
	}
}

// locate searches the claimed line, then its neighbors in widening order
// (line, -1, +1, -2, +2), for snip. Start snippets take the first occurrence
// scanning forward; end snippets take the last occurrence so the span closes
// as late as possible on the line. When every candidate line is outside the
// index, the whole document is searched as a last resort.
func locate(ix *lineindex.Index, doc string, line int, snip string, fromEnd bool) (int, bool) {
	anyInRange := false
	for _, ln := range searchOrder(line) {
		s, e, err := ix.OffsetRange(ln)
		if err != nil {
			continue
		}
		anyInRange = true
		if i := find(doc[s:e], snip, fromEnd); i >= 0 {
			return s + i, true
		}
	}
	if !anyInRange {
		if i := find(doc, snip, fromEnd); i >= 0 {
			return i, true
		}
	}
	return 0, false
}

func find(s, snip string, fromEnd bool) int {
	if fromEnd {
		return strings.LastIndex(s, snip)
	}
	return strings.Index(s, snip)
}

func searchOrder(line int) []int {
	order := []int{line}
	for d := 1; d <= NeighborWindow; d++ {
		order = append(order, line-d, line+d)
	}
	return order
}
