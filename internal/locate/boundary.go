package locate

import "strings"

// expand grows a matched candidate outward to the nearest sentence or
// paragraph boundary so highlights do not end mid-clause. Expansion never
// shrinks the match, and sentence expansion never crosses a blank-line
// paragraph break.
func expand(doc string, c candidate, g Granularity) candidate {
	switch g {
	case ExpandSentence:
		return expandSentence(doc, c)
	case ExpandParagraph:
		return expandParagraph(doc, c)
	}
	return c
}

func expandParagraph(doc string, c candidate) candidate {
	start := 0
	if i := strings.LastIndex(doc[:c.start], "\n\n"); i >= 0 {
		start = i + 2
	}
	end := len(doc)
	if i := strings.Index(doc[c.end:], "\n\n"); i >= 0 {
		end = c.end + i
	}
	return candidate{start: start, end: end}
}

func expandSentence(doc string, c candidate) candidate {
	para := expandParagraph(doc, c)

	start := para.start
	for i := c.start - 1; i >= para.start; i-- {
		if isSentenceEnd(doc, i) {
			start = i + 1
			break
		}
	}
	// The boundary sits before inter-sentence whitespace; skip it, but never
	// past the original match.
	for start < c.start && (doc[start] == ' ' || doc[start] == '\n' || doc[start] == '\t') {
		start++
	}

	end := para.end
	if c.end > 0 && isSentenceEnd(doc, c.end-1) {
		end = c.end
	} else {
		for i := c.end; i < para.end; i++ {
			if isSentenceEnd(doc, i) {
				end = i + 1
				break
			}
		}
	}
	return candidate{start: start, end: end}
}

// isSentenceEnd reports whether the byte at i terminates a sentence: one of
// .!? followed by whitespace or the end of text.
func isSentenceEnd(doc string, i int) bool {
	switch doc[i] {
	case '.', '!', '?':
	default:
		return false
	}
	return i+1 >= len(doc) || doc[i+1] == ' ' || doc[i+1] == '\n' || doc[i+1] == '\t'
}
