// Package lineindex maps line numbers to the half-open character-offset
// ranges they occupy in a document, and renders the numbered-line view shown
// to producers so they can cite lines that actually exist.
//
// Callers disagree on whether lines are 0- or 1-based, so the base is an
// explicit constructor argument at every call boundary; the index never
// guesses a convention.
package lineindex

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Base is the line-numbering convention of an index.
type Base int

const (
	ZeroBased Base = 0
	OneBased  Base = 1
)

// ErrLineOutOfRange marks a lookup outside the indexed line range. It is a
// recoverable condition: callers fall back to a full-document search.
var ErrLineOutOfRange = errors.New("line out of range")

// Line is one index entry. [Start, End) covers the line's characters and
// excludes its trailing separator, so Start of line n+1 equals End of line n
// plus one.
type Line struct {
	Number int `json:"number"`
	Start  int `json:"start"`
	End    int `json:"end"`
}

// Index is an immutable per-document-version line map. Safe for concurrent
// readers without locking.
type Index struct {
	text  string
	base  Base
	lines []Line
}

// New builds the index in a single O(n) pass over text. An empty document
// indexes as one empty line.
func New(text string, base Base) *Index {
	ix := &Index{text: text, base: base}
	start := 0
	num := int(base)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			ix.lines = append(ix.lines, Line{Number: num, Start: start, End: i})
			start = i + 1
			num++
		}
	}
	ix.lines = append(ix.lines, Line{Number: num, Start: start, End: len(text)})
	return ix
}

// Base returns the numbering convention the index was built with.
func (ix *Index) Base() Base { return ix.base }

// LineCount returns the number of indexed lines.
func (ix *Index) LineCount() int { return len(ix.lines) }

// FirstLine and LastLine bound the valid line numbers in the index's base.
func (ix *Index) FirstLine() int { return int(ix.base) }
func (ix *Index) LastLine() int  { return int(ix.base) + len(ix.lines) - 1 }

// OffsetRange returns the half-open offset range of line, numbered in the
// index's own base.
func (ix *Index) OffsetRange(line int) (start, end int, err error) {
	i := line - int(ix.base)
	if i < 0 || i >= len(ix.lines) {
		return 0, 0, fmt.Errorf("%w: line %d, index covers %d..%d",
			ErrLineOutOfRange, line, ix.FirstLine(), ix.LastLine())
	}
	return ix.lines[i].Start, ix.lines[i].End, nil
}

// LineAt returns the number of the line containing the byte offset, clamped
// to the first/last line for out-of-range offsets.
func (ix *Index) LineAt(offset int) int {
	i := sort.Search(len(ix.lines), func(i int) bool {
		return offset <= ix.lines[i].End
	})
	if i >= len(ix.lines) {
		i = len(ix.lines) - 1
	}
	return ix.lines[i].Number
}

// Render returns the document with every line prefixed by its right-aligned
// number in the index's base. This is the reference view handed back to
// producers when asking them to cite locations.
func (ix *Index) Render() string {
	width := len(strconv.Itoa(ix.LastLine()))
	var b strings.Builder
	b.Grow(len(ix.text) + len(ix.lines)*(width+2))
	for i, ln := range ix.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%*d: %s", width, ln.Number, ix.text[ln.Start:ln.End])
	}
	return b.String()
}
