package parser

import (
	"unicode/utf8"
)

const eof = -1

// scanner walks the selector source one rune at a time.
// It follows the same shape as a Pike-style lexer, but the parser drives it
// directly and rewinds by assigning to current, since selector grammar needs
// a little lookahead (namespace prefixes, descendant whitespace, "of").
type scanner struct {
	input   string // Source being scanned
	length  int    // len(input)
	current int    // Byte offset of the next rune
	width   int    // Width of the last rune read
}

func newScanner(input string) scanner {
	return scanner{input: input, length: len(input)}
}

func (s *scanner) nextRune() rune {
	if s.current >= s.length {
		s.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(s.input[s.current:])
	s.width = w
	s.current += w
	return r
}

func (s *scanner) backup() {
	s.current -= s.width
	s.width = 0
}

func (s *scanner) peek() rune {
	r := s.nextRune()
	s.backup()
	return r
}

// peekAt returns the rune n runes ahead without consuming anything.
func (s *scanner) peekAt(n int) rune {
	mark := s.current
	var r rune
	for i := 0; i <= n; i++ {
		r = s.nextRune()
	}
	s.current = mark
	return r
}

func (s *scanner) atEOF() bool {
	return s.current >= s.length
}

// charPos returns the character offset of current.
func (s *scanner) charPos() int {
	return utf8.RuneCountInString(s.input[:s.current])
}

func (s *scanner) accept(isValid func(rune) bool) bool {
	if isValid(s.nextRune()) {
		return true
	}
	s.backup()
	return false
}

func (s *scanner) acceptRune(r rune) bool {
	return s.accept(func(c rune) bool {
		return c == r
	})
}

func (s *scanner) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for s.accept(isValid) {
		matched = true
	}
	return matched
}

func (s *scanner) acceptString(str string) bool {
	if s.length-s.current >= len(str) && s.input[s.current:s.current+len(str)] == str {
		s.current += len(str)
		return true
	}
	return false
}

// acceptFold is acceptString with ASCII case folding.
func (s *scanner) acceptFold(str string) bool {
	if s.length-s.current < len(str) {
		return false
	}
	for i := 0; i < len(str); i++ {
		if lowerASCII(s.input[s.current+i]) != lowerASCII(str[i]) {
			return false
		}
	}
	s.current += len(str)
	return true
}

func (s *scanner) skipWhitespace() bool {
	return s.acceptAll(isWhitespace)
}

// acceptOneWhitespace consumes a single whitespace, counting CRLF as one.
func (s *scanner) acceptOneWhitespace() bool {
	if s.acceptRune('\r') {
		s.acceptRune('\n')
		return true
	}
	return s.accept(isWhitespace)
}

// scanEscape consumes a backslash escape: 1-6 hex digits plus an optional
// whitespace, or any single character other than a newline.
func (s *scanner) scanEscape() bool {
	start := s.current
	if !s.acceptRune('\\') {
		return false
	}
	r := s.nextRune()
	switch {
	case isHexDigit(r):
		for i := 1; i < 6 && s.accept(isHexDigit); i++ {
		}
		s.acceptOneWhitespace()
		return true
	case r == eof || isNewline(r):
		s.current = start
		return false
	}
	return true
}

func (s *scanner) scanIdentStart() bool {
	return s.accept(isIdentStart) || s.scanEscape()
}

func (s *scanner) scanIdentPart() bool {
	return s.accept(isIdentPart) || s.scanEscape()
}

// scanIdent consumes an identifier and returns its raw (still escaped) text.
func (s *scanner) scanIdent() (string, bool) {
	start := s.current
	if s.acceptRune('-') {
		if !s.acceptRune('-') && !s.scanIdentStart() {
			s.current = start
			return "", false
		}
	} else if !s.scanIdentStart() {
		s.current = start
		return "", false
	}
	for s.scanIdentPart() {
	}
	return s.input[start:s.current], true
}

// scanString consumes a quoted string and returns the raw text between the
// quotes. ok is false when current is not at a quote; closed is false when
// the string runs into a newline or the end of input.
func (s *scanner) scanString() (raw string, ok, closed bool) {
	quote := s.peek()
	if quote != '"' && quote != '\'' {
		return "", false, false
	}
	s.nextRune()
	start := s.current
	for {
		r := s.nextRune()
		switch {
		case r == quote:
			return s.input[start : s.current-s.width], true, true
		case r == eof || isNewline(r):
			if r != eof {
				s.backup()
			}
			return "", true, false
		case r == '\\':
			backslash := s.current - 1
			if s.acceptRune('\r') {
				s.acceptRune('\n')
				continue
			}
			if s.accept(isNewline) {
				continue
			}
			s.current = backslash
			if !s.scanEscape() {
				return "", true, false
			}
		}
	}
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	default:
		return false
	}
}

func isNewline(r rune) bool {
	switch r {
	case '\n', '\r', '\f':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r >= utf8.RuneSelf
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r) || r == '-'
}

// isWordChar matches the characters a regexp \b treats as word characters.
func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || isDigit(r) || r == '_'
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
