package locate

import (
	difflib "github.com/pmezard/go-difflib/difflib"
)

// longestRun finds the longest contiguous run of the query that exists
// verbatim in the document, using difflib's SequenceMatcher over per-rune
// sequences. Autojunk stays off: with it, frequent runes like spaces would
// be discounted and common substrings through them lost.
//
// run is the matched length in runes; ratio is run divided by the query's
// rune length, which scales the partial strategy's confidence.
func longestRun(doc, query string) (c candidate, run int, ratio float64, ok bool) {
	docRunes, docOff := runeSplit(doc)
	queryRunes, _ := runeSplit(query)
	if len(docRunes) == 0 || len(queryRunes) == 0 {
		return candidate{}, 0, 0, false
	}
	m := difflib.NewMatcherWithJunk(docRunes, queryRunes, false, nil)
	var best difflib.Match
	for _, blk := range m.GetMatchingBlocks() {
		if blk.Size > best.Size {
			best = blk
		}
	}
	if best.Size == 0 {
		return candidate{}, 0, 0, false
	}
	c = candidate{start: docOff[best.A], end: docOff[best.A+best.Size]}
	return c, best.Size, float64(best.Size) / float64(len(queryRunes)), true
}

// runeSplit returns s as one-rune strings plus a table mapping rune index to
// byte offset, with a final entry at len(s) so half-open rune ranges map to
// byte ranges.
func runeSplit(s string) (runes []string, byteOff []int) {
	runes = make([]string, 0, len(s))
	byteOff = make([]int, 0, len(s)+1)
	for i, r := range s {
		runes = append(runes, string(r))
		byteOff = append(byteOff, i)
	}
	byteOff = append(byteOff, len(s))
	return runes, byteOff
}
