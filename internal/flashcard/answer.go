package flashcard

import (
	"strings"
	"unicode"
)

// EquivalentAnswer reports whether a typed answer matches a card's
// corrected code. Both sides have all whitespace removed, then compare
// case-sensitively: formatting and indentation are free, token content
// is not. "x=1" matches "  x  =  1  "; "x=2" does not match "x = 1".
func EquivalentAnswer(answer, backCode string) bool {
	return stripSpace(answer) == stripSpace(backCode)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
