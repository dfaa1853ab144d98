package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/sandrolain/goselect/pkg/ast"
)

// unescapeIdent resolves the backslash escapes of a raw identifier.
func unescapeIdent(raw string) string {
	return unescape(raw, false)
}

// unescapeString resolves the escapes of the raw text between two quotes.
// An escaped newline is dropped.
func unescapeString(raw string) string {
	return unescape(raw, true)
}

func unescape(raw string, dropNewlines bool) string {
	if strings.IndexByte(raw, '\\') < 0 {
		return raw
	}
	var sb strings.Builder
	sb.Grow(len(raw))
	for i := 0; i < len(raw); {
		c := raw[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(raw) {
			break
		}
		switch c := raw[i]; {
		case isHexDigit(rune(c)):
			i = unescapeHex(raw, i, &sb)
		case dropNewlines && c == '\r':
			i++
			if i < len(raw) && raw[i] == '\n' {
				i++
			}
		case dropNewlines && (c == '\n' || c == '\f'):
			i++
		default:
			r, w := utf8.DecodeRuneInString(raw[i:])
			sb.WriteRune(r)
			i += w
		}
	}
	return sb.String()
}

// unescapeHex reads up to six hex digits starting at i, writes the code point
// and skips one trailing whitespace. It returns the index after the escape.
func unescapeHex(raw string, i int, sb *strings.Builder) int {
	var cp rune
	n := 0
	for ; n < 6 && i < len(raw) && isHexDigit(rune(raw[i])); n++ {
		cp = cp<<4 | hexValue(raw[i])
		i++
	}
	if cp == 0 || !utf8.ValidRune(cp) {
		cp = utf8.RuneError
	}
	sb.WriteRune(cp)
	if i < len(raw) {
		switch raw[i] {
		case '\r':
			i++
			if i < len(raw) && raw[i] == '\n' {
				i++
			}
		case ' ', '\t', '\n', '\f':
			i++
		}
	}
	return i
}

func hexValue(c byte) rune {
	switch {
	case c >= '0' && c <= '9':
		return rune(c - '0')
	case c >= 'a' && c <= 'f':
		return rune(c-'a') + 10
	default:
		return rune(c-'A') + 10
	}
}

// unescapeNamespace turns a raw prefix into a namespace value. "*" is the
// universal namespace.
func unescapeNamespace(raw string) ast.NamespacePrefix {
	if raw == "*" {
		return ast.UniversalNamespace{}
	}
	return ast.Namespace{Name: unescapeIdent(raw)}
}
