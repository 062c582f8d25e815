// Package titlecase capitalises whitespace-delimited words.
package titlecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// String uppercases the first letter of every whitespace-delimited word in s
// and lowercases the rest of that word. Whitespace is copied through as is.
//
// Unlike cases.Title, punctuation inside a word such as "_" or "-" does not
// start a new word: "node_child" becomes "Node_child".
func String(s string) string {
	// Casers carry state and must not be shared between goroutines.
	lower := cases.Lower(language.Und)

	var b strings.Builder
	b.Grow(len(s))
	start := -1
	for i, r := range s {
		if !unicode.IsSpace(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			writeWord(&b, lower, s[start:i])
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		writeWord(&b, lower, s[start:])
	}
	return b.String()
}

func writeWord(b *strings.Builder, lower cases.Caser, word string) {
	r, size := utf8.DecodeRuneInString(word)
	b.WriteRune(unicode.ToTitle(r))
	b.WriteString(lower.String(word[size:]))
}
