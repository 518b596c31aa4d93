// Package validate enforces the invariants every resolved span must satisfy
// before it can become a highlight, and converts violations into structured,
// explainable reasons.
//
// Goals:
//   - Checks run in a fixed order and stop at the first failure
//   - Every reason names the violated check and the actual vs expected values
//   - Reasons are the payload an external retry loop turns into corrective
//     feedback for the producer; they never reach an end user directly
package validate

import (
	"fmt"
	"unicode/utf8"

	"highlight-resolver/internal/diff"
	"highlight-resolver/internal/highlight"
)

// Limits bounds the spans the validator accepts.
type Limits struct {
	// MaxSpanLength is the largest accepted quoted text, in characters.
	// Absurdly long spans stop being meaningful highlights.
	MaxSpanLength int
}

// DefaultLimits returns the documented default bounds.
func DefaultLimits() Limits {
	return Limits{MaxSpanLength: 1500}
}

// Span re-checks a candidate against the document it claims to index and
// stamps Valid/Reason. Candidates that already carry a location failure pass
// through untouched so their reason survives to the caller.
func Span(doc string, span highlight.ResolvedSpan, lim Limits) highlight.ResolvedSpan {
	if !span.Valid {
		return span
	}
	fail := func(format string, args ...any) highlight.ResolvedSpan {
		span.Valid = false
		span.Reason = fmt.Sprintf(format, args...)
		return span
	}

	if span.Start < 0 {
		return fail("%s: start offset %d is negative", highlight.ReasonOffsetOutOfRange, span.Start)
	}
	if span.End <= span.Start {
		return fail("%s: end offset %d does not exceed start offset %d",
			highlight.ReasonInvertedRange, span.End, span.Start)
	}
	if span.End > len(doc) {
		return fail("%s: end offset %d exceeds document length %d",
			highlight.ReasonOffsetOutOfRange, span.End, len(doc))
	}
	if actual := doc[span.Start:span.End]; actual != span.QuotedText {
		return fail("%s: document[%d:%d] differs from quoted text\n%s",
			highlight.ReasonTextMismatch, span.Start, span.End, diff.Compact(span.QuotedText, actual))
	}
	if span.QuotedText == "" {
		return fail("%s: quoted text is empty", highlight.ReasonEmptySpan)
	}
	if n := utf8.RuneCountInString(span.QuotedText); lim.MaxSpanLength > 0 && n > lim.MaxSpanLength {
		return fail("%s: quoted text is %d characters, maximum is %d",
			highlight.ReasonSpanTooLong, n, lim.MaxSpanLength)
	}
	span.Valid = true
	span.Reason = ""
	return span
}
