package query

import "github.com/sandrolain/goselect/pkg/adapter"

// lowerASCII folds A-Z only, leaving every other byte alone.
func lowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if c := b[j]; c >= 'A' && c <= 'Z' {
					b[j] = c + ('a' - 'A')
				}
			}
			return string(b)
		}
	}
	return s
}

// equalName compares two names, folding ASCII letters when insensitive.
func equalName(a, b string, insensitive bool) bool {
	if insensitive {
		return adapter.EqualName(a, b, adapter.CaseInsensitive)
	}
	return a == b
}
