// Package locate implements the free-text location finder: an ordered chain
// of matching strategies run over the whole document, from literal substring
// search down to bounded fuzzy matching. Each strategy carries a fixed
// confidence ceiling and is attempted only when the previous one found
// nothing, so an exact hit always reports confidence 1.0.
package locate

import (
	"strings"
	"unicode/utf8"

	"highlight-resolver/internal/highlight"
	"highlight-resolver/internal/lineindex"
	"highlight-resolver/internal/textutil"
)

// Granularity selects how far an accepted match may be grown outward.
type Granularity string

const (
	ExpandNone      Granularity = ""
	ExpandSentence  Granularity = "sentence"
	ExpandParagraph Granularity = "paragraph"
)

// Confidence ceilings per strategy.
const (
	confExact           = 1.0
	confCaseInsensitive = 0.95
	confNormalized      = 0.9
	confPartialCeiling  = 0.85
	confFuzzyFloor      = 0.6
	confFuzzyCeiling    = 0.8
	// A fuzzy match with no corroborating context never reports above this,
	// so hosts can gate high-importance highlights on stronger evidence.
	confFuzzyUncorroborated = 0.7
)

// maxCandidates bounds how many occurrences a strategy collects for
// disambiguation.
const maxCandidates = 64

// Options control the strategy chain.
type Options struct {
	MinPartialSearchLength int // shortest query eligible for partial matching
	MinPartialMatchLength  int // shortest verbatim run partial matching accepts
	EnableFuzzy            bool
	FuzzyMinSimilarity     float64 // acceptance floor for fuzzy candidates
	ContextRadius          int     // characters around a candidate scored against Context
	Expand                 Granularity
	// MaxSpanLength caps boundary expansion, in characters: a match is never
	// grown past it. 0 leaves expansion unbounded. The raw match itself is
	// not clamped; the validator judges it.
	MaxSpanLength int
	// LineIndex, when set, lets a request's LineHint bias context scoring.
	// Hints never filter candidates; they are frequently wrong.
	LineIndex *lineindex.Index
}

// DefaultOptions returns the documented defaults. Fuzzy matching stays off
// unless the caller opts in.
func DefaultOptions() Options {
	return Options{
		MinPartialSearchLength: 30,
		MinPartialMatchLength:  20,
		FuzzyMinSimilarity:     0.75,
		ContextRadius:          200,
	}
}

// candidate is a half-open byte range into the original document text.
type candidate struct {
	start, end int
}

// Find runs the strategy chain and returns the best candidate, or nil when
// every strategy misses. A nil result is the normal outcome of an unreliable
// producer, not an error.
func Find(doc string, req highlight.FreeText, opts Options) *highlight.ResolvedSpan {
	query := req.SearchText
	if query == "" || doc == "" {
		return nil
	}

	if cs := findLiteral(doc, query); len(cs) > 0 {
		return accept(doc, req, opts, pick(doc, req, opts, cs), highlight.StrategyExact, confExact)
	}

	if cs := foldCase(doc).findAll(foldCase(query).text); len(cs) > 0 {
		return accept(doc, req, opts, pick(doc, req, opts, cs), highlight.StrategyCaseInsensitive, confCaseInsensitive)
	}

	if q := normalizeLoose(query).text; strings.TrimSpace(q) != "" {
		if cs := normalizeLoose(doc).findAll(q); len(cs) > 0 {
			return accept(doc, req, opts, pick(doc, req, opts, cs), highlight.StrategyNormalized, confNormalized)
		}
	}

	if utf8.RuneCountInString(query) >= opts.MinPartialSearchLength {
		if c, run, ratio, ok := longestRun(doc, query); ok && run >= opts.MinPartialMatchLength {
			// The longest run is one region of text; re-collect duplicates of
			// that region so context can still disambiguate between them.
			cs := findLiteral(doc, doc[c.start:c.end])
			return accept(doc, req, opts, pick(doc, req, opts, cs), highlight.StrategyPartial, confPartialCeiling*ratio)
		}
	}

	if opts.EnableFuzzy {
		if c, sim, ok := fuzzyFind(doc, query, opts.FuzzyMinSimilarity); ok {
			conf := confFuzzyFloor + (confFuzzyCeiling-confFuzzyFloor)*sim
			if req.Context == "" && conf > confFuzzyUncorroborated {
				conf = confFuzzyUncorroborated
			}
			return accept(doc, req, opts, c, highlight.StrategyFuzzy, conf)
		}
	}
	return nil
}

func accept(doc string, req highlight.FreeText, opts Options, c candidate, strategy string, conf float64) *highlight.ResolvedSpan {
	if e := expand(doc, c, opts.Expand); opts.MaxSpanLength <= 0 ||
		utf8.RuneCountInString(doc[e.start:e.end]) <= opts.MaxSpanLength {
		c = e
	}
	return &highlight.ResolvedSpan{
		Start:      c.start,
		End:        c.end,
		QuotedText: doc[c.start:c.end],
		Strategy:   strategy,
		Confidence: conf,
		Valid:      true,
	}
}

// findLiteral collects every occurrence of query in doc, in document order,
// up to maxCandidates.
func findLiteral(doc, query string) []candidate {
	var out []candidate
	from := 0
	for len(out) < maxCandidates {
		i := strings.Index(doc[from:], query)
		if i < 0 {
			break
		}
		i += from
		out = append(out, candidate{start: i, end: i + len(query)})
		from = i + 1
	}
	return out
}

// pick selects among candidate occurrences. With context supplied, the best
// context score wins and LineHint nudges that score; without context the
// first occurrence in document order wins, deterministically.
func pick(doc string, req highlight.FreeText, opts Options, cs []candidate) candidate {
	if len(cs) == 1 || req.Context == "" {
		return cs[0]
	}
	ctx := textutil.TokenSet(req.Context)
	best := cs[0]
	bestScore := -1.0
	for _, c := range cs {
		score := contextScore(doc, c, ctx, opts.ContextRadius)
		if req.LineHint > 0 && opts.LineIndex != nil {
			score += hintBonus(opts.LineIndex, req.LineHint, c.start)
		}
		if score > bestScore+1e-9 {
			best, bestScore = c, score
		}
	}
	return best
}

// contextScore measures the fraction of the producer's context tokens that
// appear within a fixed-radius window around the candidate.
func contextScore(doc string, c candidate, ctx map[string]struct{}, radius int) float64 {
	if len(ctx) == 0 {
		return 0
	}
	lo := c.start - radius
	if lo < 0 {
		lo = 0
	}
	hi := c.end + radius
	if hi > len(doc) {
		hi = len(doc)
	}
	for lo > 0 && !utf8.RuneStart(doc[lo]) {
		lo--
	}
	for hi < len(doc) && !utf8.RuneStart(doc[hi]) {
		hi++
	}
	window := textutil.TokenSet(doc[lo:hi])
	matched := 0
	for tok := range ctx {
		if _, ok := window[tok]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(ctx))
}

// hintBonus nudges scoring toward candidates near the producer's approximate
// line. The bonus is small so real context agreement always dominates.
func hintBonus(ix *lineindex.Index, hint, offset int) float64 {
	d := ix.LineAt(offset) - hint
	if d < 0 {
		d = -d
	}
	return 0.25 / float64(1+d)
}
