package validate

import (
	"strings"
	"testing"

	"highlight-resolver/internal/highlight"
)

const doc = "The quick brown fox jumps over the lazy dog."

func valid(start, end int) highlight.ResolvedSpan {
	return highlight.ResolvedSpan{
		Start:      start,
		End:        end,
		QuotedText: doc[start:end],
		Strategy:   highlight.StrategyExact,
		Confidence: 1.0,
		Valid:      true,
	}
}

func TestSpanAcceptsWellFormed(t *testing.T) {
	got := Span(doc, valid(4, 15), DefaultLimits())
	if !got.Valid {
		t.Fatalf("expected valid, got reason %q", got.Reason)
	}
	if got.Reason != "" {
		t.Fatalf("accepted span should carry no reason, got %q", got.Reason)
	}
}

func TestSpanChecksInOrder(t *testing.T) {
	tests := []struct {
		name   string
		span   highlight.ResolvedSpan
		reason string
		detail string
	}{
		{
			name:   "negative start",
			span:   highlight.ResolvedSpan{Start: -1, End: 5, QuotedText: "x", Valid: true},
			reason: highlight.ReasonOffsetOutOfRange,
			detail: "-1",
		},
		{
			name:   "end equals start",
			span:   highlight.ResolvedSpan{Start: 5, End: 5, QuotedText: "", Valid: true},
			reason: highlight.ReasonInvertedRange,
			detail: "end offset 5",
		},
		{
			name:   "end before start",
			span:   highlight.ResolvedSpan{Start: 10, End: 4, QuotedText: "x", Valid: true},
			reason: highlight.ReasonInvertedRange,
			detail: "start offset 10",
		},
		{
			name:   "end past document",
			span:   highlight.ResolvedSpan{Start: 0, End: len(doc) + 1, QuotedText: doc, Valid: true},
			reason: highlight.ReasonOffsetOutOfRange,
			detail: "document length 44",
		},
		{
			name:   "quoted text disagrees",
			span:   highlight.ResolvedSpan{Start: 4, End: 15, QuotedText: "quick brawn", Valid: true},
			reason: highlight.ReasonTextMismatch,
			detail: "document[4:15]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Span(doc, tt.span, DefaultLimits())
			if got.Valid {
				t.Fatalf("expected rejection")
			}
			if !strings.HasPrefix(got.Reason, tt.reason) {
				t.Fatalf("reason %q should start with %q", got.Reason, tt.reason)
			}
			if !strings.Contains(got.Reason, tt.detail) {
				t.Fatalf("reason %q should mention %q", got.Reason, tt.detail)
			}
		})
	}
}

func TestSpanMismatchReasonCarriesDiff(t *testing.T) {
	span := highlight.ResolvedSpan{Start: 4, End: 15, QuotedText: "quick brawn", Valid: true}
	got := Span(doc, span, DefaultLimits())
	if got.Valid {
		t.Fatalf("expected rejection")
	}
	if !strings.Contains(got.Reason, "-quick brawn") || !strings.Contains(got.Reason, "+quick brown") {
		t.Fatalf("reason should embed the expected/actual diff:\n%s", got.Reason)
	}
}

func TestSpanRejectsOverlongQuote(t *testing.T) {
	long := strings.Repeat("a", 1600)
	span := highlight.ResolvedSpan{Start: 0, End: len(long), QuotedText: long, Valid: true}
	got := Span(long, span, DefaultLimits())
	if got.Valid {
		t.Fatalf("expected rejection at 1600 characters")
	}
	if !strings.HasPrefix(got.Reason, highlight.ReasonSpanTooLong) {
		t.Fatalf("reason got %q", got.Reason)
	}
	if !strings.Contains(got.Reason, "1600") || !strings.Contains(got.Reason, "1500") {
		t.Fatalf("reason should state actual and maximum lengths: %q", got.Reason)
	}
}

func TestSpanLengthCountsRunesNotBytes(t *testing.T) {
	// 800 two-byte runes: 1600 bytes but only 800 characters.
	text := strings.Repeat("é", 800)
	span := highlight.ResolvedSpan{Start: 0, End: len(text), QuotedText: text, Valid: true}
	got := Span(text, span, DefaultLimits())
	if !got.Valid {
		t.Fatalf("800 runes must fit within a 1500-character limit, got %q", got.Reason)
	}
}

func TestSpanZeroLimitDisablesLengthCheck(t *testing.T) {
	long := strings.Repeat("a", 5000)
	span := highlight.ResolvedSpan{Start: 0, End: len(long), QuotedText: long, Valid: true}
	if got := Span(long, span, Limits{}); !got.Valid {
		t.Fatalf("zero limit should disable the length check, got %q", got.Reason)
	}
}

func TestSpanPassesThroughPriorRejection(t *testing.T) {
	rejected := highlight.ResolvedSpan{
		Valid:  false,
		Reason: highlight.ReasonNotFound + ": no strategy matched",
	}
	got := Span(doc, rejected, DefaultLimits())
	if got != rejected {
		t.Fatalf("prior rejection must survive untouched, got %+v", got)
	}
}
