package render

import (
	"strings"
	"unicode"
)

// Literal makes s safe to print on a terminal: control characters, which
// could smuggle escape sequences, are replaced. Newlines are kept.
func Literal(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case unicode.IsControl(r), isBidiOverride(r):
			return unicode.ReplacementChar
		default:
			return r
		}
	}, s)
}

// Inline is Literal for single-line fields like usernames.
func Inline(s string) string {
	return strings.ReplaceAll(Literal(s), "\n", " ")
}

// isBidiOverride reports the explicit direction controls that can visually
// reorder the rest of a line. Zero-width joiners used by emoji are kept.
func isBidiOverride(r rune) bool {
	return (r >= 0x202A && r <= 0x202E) || (r >= 0x2066 && r <= 0x2069)
}
