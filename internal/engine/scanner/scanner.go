// Package scanner detects trigger patterns relative to a cursor position.
//
// A trigger is a prefix character (default ':') followed by one or more
// word characters, ending exactly at the cursor. The scanner is a pure
// function of (text, cursor); it holds no surface state.
package scanner

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/snipstorm/internal/engine/surface"
)

// DefaultPrefix is the trigger marker used when none is configured.
const DefaultPrefix = ':'

// Match describes a trigger found immediately before the cursor.
type Match struct {
	Trigger string       // Trigger name, without the prefix character
	Span    surface.Span // Full match span, prefix included
}

// Scanner finds trigger patterns in surface text.
type Scanner struct {
	prefix rune
}

// New creates a scanner with the given trigger prefix. A zero prefix
// falls back to DefaultPrefix.
func New(prefix rune) *Scanner {
	if prefix == 0 {
		prefix = DefaultPrefix
	}
	return &Scanner{prefix: prefix}
}

// Prefix returns the configured trigger prefix.
func (s *Scanner) Prefix() rune {
	return s.prefix
}

// Scan reports whether the text immediately preceding cursor matches
// prefix + one-or-more word characters. The cursor is a byte offset into
// text; offsets outside [0, len(text)] never match.
func (s *Scanner) Scan(text string, cursor int) (Match, bool) {
	if cursor <= 0 || cursor > len(text) {
		return Match{}, false
	}

	// Walk backwards over word characters.
	pos := cursor
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:pos])
		if !isWordRune(r) {
			break
		}
		pos -= size
	}

	// At least one word character is required after the prefix.
	if pos == cursor {
		return Match{}, false
	}

	// The character before the run must be the prefix.
	r, size := utf8.DecodeLastRuneInString(text[:pos])
	if pos == 0 || r != s.prefix {
		return Match{}, false
	}

	return Match{
		Trigger: text[pos:cursor],
		Span:    surface.NewSpan(pos-size, cursor),
	}, true
}

// ScanSurface runs Scan against a surface's text at its current cursor.
func (s *Scanner) ScanSurface(surf surface.Surface) (Match, bool) {
	start, end := surf.Selection()
	if start != end {
		// An active selection never sits "just after" a trigger.
		return Match{}, false
	}
	return s.Scan(surf.PlainText(), end)
}

// isWordRune reports whether r may appear in a trigger name: letters,
// digits, underscore, hyphen.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}
