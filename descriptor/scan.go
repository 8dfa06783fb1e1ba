package descriptor

import (
	"encoding/json"
	"unicode"
	"unicode/utf8"
)

// scanner is a position-annotated cursor over descriptor source text.
// All productions thread the same scanner, so every error location comes
// from the cursor itself rather than a separate re-scan pass.
type scanner struct {
	src   string
	off   int
	line  int
	col   int
	blank bool // only whitespace seen since the start of the current line
}

func newScanner(src string) *scanner {
	return &scanner{src: src, line: 1, col: 1, blank: true}
}

func (s *scanner) eof() bool { return s.off >= len(s.src) }

func (s *scanner) position() Position {
	return Position{Offset: s.off, Line: s.line, Column: s.col}
}

// peek returns the byte at the cursor, or 0 at EOF.
func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}

	return s.src[s.off]
}

// peekAt returns the byte n positions past the cursor, or 0 past EOF.
func (s *scanner) peekAt(n int) byte {
	if s.off+n >= len(s.src) {
		return 0
	}

	return s.src[s.off+n]
}

// next consumes and returns one rune, maintaining line, column, and
// line-blankness bookkeeping.
func (s *scanner) next() rune {
	if s.eof() {
		return 0
	}

	r, size := utf8.DecodeRuneInString(s.src[s.off:])
	s.off += size

	if r == '\n' {
		s.line++
		s.col = 1
		s.blank = true

		return r
	}

	s.col++

	if !unicode.IsSpace(r) {
		s.blank = false
	}

	return r
}

// skipInlineSpace consumes spaces, tabs, and carriage returns, stopping
// before any newline.
func (s *scanner) skipInlineSpace() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\r':
			s.next()
		default:
			return
		}
	}
}

// atLineEnd reports whether the cursor sits at a newline or EOF.
func (s *scanner) atLineEnd() bool {
	return s.eof() || s.peek() == '\n'
}

// restOfLine returns the text from the cursor to the next newline without
// consuming it.
func (s *scanner) restOfLine() string {
	end := s.off
	for end < len(s.src) && s.src[end] != '\n' {
		end++
	}

	return s.src[s.off:end]
}

// isWord reports whether b can appear in a directive name.
func isWord(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// scanStringRaw consumes a double-quoted string literal and returns its raw
// source including both quotes. The literal may not span lines.
func (s *scanner) scanStringRaw() (string, Position, error) {
	pos := s.position()
	if s.peek() != '"' {
		return "", pos, errAt(ErrExpectedString, pos, s.restOfLine())
	}

	start := s.off

	s.next() // opening quote

	for !s.eof() {
		switch s.peek() {
		case '\\':
			s.next()

			if !s.eof() {
				s.next()
			}
		case '"':
			s.next()

			return s.src[start:s.off], pos, nil
		case '\n':
			return "", pos, errAt(ErrUnterminatedString, pos, s.src[start:s.off])
		default:
			s.next()
		}
	}

	return "", pos, errAt(ErrUnterminatedString, pos, s.src[start:s.off])
}

// scanString consumes a double-quoted string literal and decodes its
// JSON-style backslash escapes.
func (s *scanner) scanString() (string, Position, error) {
	raw, pos, err := s.scanStringRaw()
	if err != nil {
		return "", pos, err
	}

	var out string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return "", pos, errAt(ErrBadStringEscape, pos, raw)
	}

	return out, pos, nil
}

// skipQuoted consumes a quoted region inside an expression span without
// validating it. Balancing stops at an unescaped closing quote; a newline
// ends the region leniently and leaves validation to the script engine.
func (s *scanner) skipQuoted(quote byte) {
	s.next() // opening quote

	for !s.eof() {
		switch s.peek() {
		case '\\':
			s.next()

			if !s.eof() {
				s.next()
			}
		case quote:
			s.next()

			return
		case '\n':
			return
		default:
			s.next()
		}
	}
}
