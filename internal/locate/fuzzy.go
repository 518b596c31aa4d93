package locate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// bitapMaxPattern is diffmatchpatch's bitap pattern limit in bytes.
const bitapMaxPattern = 32

// fuzzyFind locates the closest approximate occurrence of query in doc.
// Short patterns go through diffmatchpatch's bitap matcher; longer ones are
// scanned window-by-window from word starts. The returned similarity is
// 1 minus the normalized Levenshtein distance over the aligned region.
func fuzzyFind(doc, query string, minSimilarity float64) (candidate, float64, bool) {
	if len(query) <= bitapMaxPattern {
		return bitapFind(doc, query, minSimilarity)
	}
	return scanFind(doc, query, minSimilarity)
}

func bitapFind(doc, query string, minSimilarity float64) (candidate, float64, bool) {
	dmp := diffmatchpatch.New()
	dmp.MatchThreshold = 1 - minSimilarity + 0.05
	// Neutralize the proximity penalty so candidates anywhere in the
	// document compete on edit distance alone; earlier wins ties.
	dmp.MatchDistance = 1 << 30
	loc := dmp.MatchMain(doc, query, 0)
	if loc < 0 {
		return candidate{}, 0, false
	}
	c, sim := align(doc, loc, query)
	if sim < minSimilarity {
		return candidate{}, 0, false
	}
	return c, sim, true
}

// scanFind slides over word starts for patterns too long for bitap. A cheap
// lower-cased prefix distance gates the full alignment diff, keeping the
// scan near-linear on ordinary prose.
func scanFind(doc, query string, minSimilarity float64) (candidate, float64, bool) {
	dmp := diffmatchpatch.New()
	queryPrefix := strings.ToLower(runePrefix(query, 12))
	var best candidate
	bestSim := 0.0
	for _, s := range wordStarts(doc) {
		if len(doc)-s < len(query)/2 {
			break
		}
		windowPrefix := strings.ToLower(runePrefix(doc[s:], 12))
		if lev := dmp.DiffLevenshtein(dmp.DiffMain(windowPrefix, queryPrefix, false)); lev > 3 {
			continue
		}
		c, sim := align(doc, s, query)
		if sim > bestSim+1e-9 {
			best, bestSim = c, sim
		}
	}
	if bestSim < minSimilarity {
		return candidate{}, 0, false
	}
	return best, bestSim, true
}

// align fixes the end offset of a fuzzy match starting at loc and scores it.
// The window is the query length plus slack for insertions; diffing the
// window against the query and trimming trailing window-only text yields the
// region the query actually corresponds to.
func align(doc string, loc int, query string) (candidate, float64) {
	end := loc + len(query) + len(query)/4 + 4
	if end > len(doc) {
		end = len(doc)
	}
	for end < len(doc) && !utf8.RuneStart(doc[end]) {
		end++
	}
	window := doc[loc:end]

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(window, query, false)
	if n := len(diffs); n > 0 && diffs[n-1].Type == diffmatchpatch.DiffDelete {
		window = window[:len(window)-len(diffs[n-1].Text)]
		diffs = diffs[:n-1]
	}
	if window == "" {
		return candidate{}, 0
	}
	lev := dmp.DiffLevenshtein(diffs)
	den := utf8.RuneCountInString(query)
	if wc := utf8.RuneCountInString(window); wc > den {
		den = wc
	}
	sim := 1 - float64(lev)/float64(den)
	if sim < 0 {
		sim = 0
	}
	return candidate{start: loc, end: loc + len(window)}, sim
}

// runePrefix returns up to n bytes of s, cut at a rune boundary.
func runePrefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// wordStarts returns the byte offsets where a letter or digit begins a word.
func wordStarts(doc string) []int {
	var out []int
	prevWord := false
	for i, r := range doc {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r)
		if isWord && !prevWord {
			out = append(out, i)
		}
		prevWord = isWord
	}
	return out
}
