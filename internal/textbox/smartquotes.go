package textbox

import "strings"

const (
	leftDoubleQuote  = '“'
	rightDoubleQuote = '”'
	leftSingleQuote  = '‘'
	rightSingleQuote = '’'
)

// applySmartQuotes rewrites ASCII straight quotes in s into curly
// quotes. atStart is whether the rune immediately preceding s in the
// document is whitespace or s opens the document; it only governs the
// very first quote in s, since any quote after that is governed by
// whatever precedes it within s.
func applySmartQuotes(s string, atStart bool) string {
	if !strings.ContainsAny(s, `"'`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	openContext := atStart
	var prev rune
	for i, r := range s {
		switch r {
		case '"':
			if i == 0 {
				openContext = atStart
			} else {
				openContext = isQuoteOpenContext(prev)
			}
			if openContext {
				b.WriteRune(leftDoubleQuote)
			} else {
				b.WriteRune(rightDoubleQuote)
			}
		case '\'':
			if i == 0 {
				openContext = atStart
			} else {
				openContext = isQuoteOpenContext(prev)
			}
			if openContext {
				b.WriteRune(leftSingleQuote)
			} else {
				b.WriteRune(rightSingleQuote)
			}
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

func isQuoteOpenContext(prev rune) bool {
	switch prev {
	case ' ', '\t', '\n', '\r', 0:
		return true
	default:
		return false
	}
}
