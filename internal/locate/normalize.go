package locate

import (
	"strings"
	"unicode"
)

// mapped is a transformed view of a text plus a map from every transformed
// byte offset back to the corresponding original byte offset. off holds
// len(text)+1 entries; the final entry maps the end of the transformed text
// to the end of the original, so half-open match ranges translate directly.
//
// Only the search runs over the transformed text. Spans reported to callers
// always index, and quote, the original.
type mapped struct {
	text string
	off  []int
}

// transform rewrites src rune by rune through fn and records, for every
// emitted byte, the original offset of the rune that produced it. fn returns
// the replacement text for the rune; "" drops it.
func transform(src string, fn func(r rune) string) mapped {
	var b strings.Builder
	b.Grow(len(src))
	off := make([]int, 0, len(src)+1)
	for i, r := range src {
		out := fn(r)
		for j := 0; j < len(out); j++ {
			off = append(off, i)
		}
		b.WriteString(out)
	}
	off = append(off, len(src))
	return mapped{text: b.String(), off: off}
}

// findAll returns the original-text spans of every occurrence of query in
// the transformed text, in document order, up to maxCandidates.
func (m mapped) findAll(query string) []candidate {
	if query == "" {
		return nil
	}
	var out []candidate
	from := 0
	for len(out) < maxCandidates {
		i := strings.Index(m.text[from:], query)
		if i < 0 {
			break
		}
		i += from
		out = append(out, candidate{start: m.off[i], end: m.off[i+len(query)]})
		from = i + 1
	}
	return out
}

// foldCase lower-cases every rune, keeping the offset map so matches are
// reported against the original casing.
func foldCase(src string) mapped {
	return transform(src, func(r rune) string { return string(unicode.ToLower(r)) })
}

// normalizeLoose unifies curly and straight quote styles and collapses every
// whitespace run to a single space. Case is preserved; the case-insensitive
// strategy has already run by the time this one is tried.
func normalizeLoose(src string) mapped {
	prevSpace := false
	return transform(src, func(r rune) string {
		switch r {
		case '“', '”', '„', '«', '»':
			prevSpace = false
			return `"`
		case '‘', '’', '‚':
			prevSpace = false
			return "'"
		}
		if unicode.IsSpace(r) {
			if prevSpace {
				return ""
			}
			prevSpace = true
			return " "
		}
		prevSpace = false
		return string(r)
	})
}
