// Package highlight defines the data model shared by the resolution engine:
// the request union producers emit, the resolved spans the engine answers
// with, and attributed highlights ready for overlap resolution.
package highlight

import "fmt"

// Request is a closed union over the two shapes a producer may emit. Exactly
// one variant is non-nil; the schema-validation layer upstream guarantees
// structural well-formedness, so nothing downstream probes types at runtime.
type Request struct {
	LineSnippet *LineSnippet `json:"lineSnippet,omitempty"`
	FreeText    *FreeText    `json:"freeText,omitempty"`
}

// Shape names the populated variant, for logs and metrics labels.
func (r Request) Shape() string {
	switch {
	case r.LineSnippet != nil:
		return "line-snippet"
	case r.FreeText != nil:
		return "free-text"
	}
	return "empty"
}

// LineSnippet anchors a span by claimed line numbers plus short verbatim
// snippets (typically 3-10 characters) copied from the start and end of the
// intended range. Line numbers follow the convention of the index the
// request is resolved against.
type LineSnippet struct {
	StartLine       int    `json:"startLine"`
	EndLine         int    `json:"endLine"`
	StartCharacters string `json:"startCharacters"`
	EndCharacters   string `json:"endCharacters"`
}

// FreeText is an unanchored quote. Context is surrounding prose used to
// disambiguate repeated occurrences. LineHint is an approximate line number
// (0 = none); it only ever biases candidate scoring, it never filters
// candidates, since producer hints are frequently wrong.
type FreeText struct {
	SearchText string `json:"searchText"`
	Context    string `json:"context,omitempty"`
	LineHint   int    `json:"lineHint,omitempty"`
}

// Strategy names stamped on resolved spans.
const (
	StrategyLineSnippet     = "line-snippet"
	StrategyExact           = "exact"
	StrategyCaseInsensitive = "case-insensitive"
	StrategyNormalized      = "normalized"
	StrategyPartial         = "partial"
	StrategyFuzzy           = "fuzzy"
)

// Failure reason prefixes. Every rejection reason starts with one of these so
// the retry-feedback layer can classify failures without parsing prose.
const (
	ReasonSnippetNotFound   = "SnippetNotFound"
	ReasonInvertedRange     = "InvertedRange"
	ReasonNotFound          = "NotFound"
	ReasonOffsetOutOfRange  = "OffsetOutOfRange"
	ReasonTextMismatch      = "TextMismatch"
	ReasonEmptySpan         = "EmptySpan"
	ReasonSpanTooLong       = "SpanTooLong"
)

// ResolvedSpan is the engine's answer for one request. When Valid is true,
// Start/End are a half-open byte range into the document and QuotedText
// equals document[Start:End] exactly; normalization may steer the search but
// never survives into the stored text. When Valid is false, Reason explains
// the rejection and the offsets are meaningless.
type ResolvedSpan struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	QuotedText string  `json:"quotedText,omitempty"`
	Strategy   string  `json:"strategy,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Valid      bool    `json:"valid"`
	Reason     string  `json:"reason,omitempty"`
}

// Reject builds an invalid span for the given strategy with a formatted
// reason. Location failures are data, not errors, so batch processing
// continues past them.
func Reject(strategy, format string, args ...any) ResolvedSpan {
	return ResolvedSpan{Strategy: strategy, Reason: fmt.Sprintf(format, args...)}
}

// Overlaps reports whether two half-open ranges intersect.
func (s ResolvedSpan) Overlaps(o ResolvedSpan) bool {
	return s.Start < o.End && o.Start < s.End
}

// Highlight attaches attribution to a validated span. Highlights are
// immutable after creation; the overlap resolver drops them, it never edits
// them.
type Highlight struct {
	ID       string       `json:"id"`
	Span     ResolvedSpan `json:"span"`
	Producer string       `json:"producer"`
	Priority int          `json:"priority"`         // higher outranks lower when overlapping spans collide
	Weight   int          `json:"weight,omitempty"` // importance/severity, passed through to hosts
}
