package search

import (
	"strings"
	"unicode"
)

// NormalizeQuery lowercases input, keeps letters, digits and the punctuation
// that appears inside skill names (C++, C#, Node.js) and collapses whitespace.
func NormalizeQuery(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	input = strings.ToLower(input)

	b := strings.Builder{}
	b.Grow(len(input))
	lastWasSpace := false

	for _, r := range input {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '+' || r == '#' || r == '.':
			b.WriteRune(r)
			lastWasSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '/':
			if b.Len() == 0 || lastWasSpace {
				continue
			}
			b.WriteByte(' ')
			lastWasSpace = true
		}
	}

	out := strings.Trim(b.String(), " .")
	return strings.Join(strings.Fields(out), " ")
}

