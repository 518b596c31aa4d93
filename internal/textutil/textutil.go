// Package textutil provides document preparation and tokenization helpers.
// Offsets produced by the engine index the normalized text, so hosts must
// normalize once, before resolution, and keep that exact text immutable.
package textutil

import (
	"bytes"
	"strings"
	"unicode"
)

// NormalizeUTF8LF converts CRLF/CR to LF and ensures the output is valid
// UTF-8 by replacing invalid byte sequences with the Unicode replacement
// character.
func NormalizeUTF8LF(b []byte) []byte {
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	b = bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
	return bytes.ToValidUTF8(b, []byte("�"))
}

// Tokens returns the lower-cased alphanumeric word tokens of s, used when
// scoring textual overlap between a candidate's surroundings and a
// producer-supplied context.
func Tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TokenSet builds a membership set over Tokens(s).
func TokenSet(s string) map[string]struct{} {
	toks := Tokens(s)
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}
