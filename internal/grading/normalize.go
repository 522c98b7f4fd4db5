package grading

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize canonicalizes text before any comparison: invisible format
// characters (zero-width space, BOM, soft hyphen...) are dropped, the text
// is lower-cased and whitespace runs collapse to single spaces with no
// leading or trailing space.
func Normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Words splits text on whitespace.
func Words(s string) []string {
	return strings.Fields(s)
}

// WordCount is the number of whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// charCount measures length in runes so accented letters count once.
func charCount(s string) int {
	return utf8.RuneCountInString(s)
}
