package textsim

import "strings"

// Literal terms whose punctuation carries meaning. Matched against the whole
// trimmed, lower-cased input only.
var specialTerms = map[string]string{
	"c#":  "csharp",
	"c++": "cplusplus",
}

// Normalize lower-cases and trims text, then deletes every character that is
// not an ASCII letter, ASCII digit or ASCII whitespace.
// Returns "" for blank input.
func Normalize(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	lower := strings.ToLower(trimmed)
	if mapped, ok := specialTerms[lower]; ok {
		return mapped
	}

	var b strings.Builder
	b.Grow(len(lower))
	for i := 0; i < len(lower); i++ {
		if c := lower[i]; isKept(c) {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// isKept reports whether c survives normalization. Non-ASCII bytes never do,
// so multi-byte runes are dropped whole.
func isKept(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == ' ', c == '\t', c == '\n', c == '\v', c == '\f', c == '\r':
		return true
	}
	return false
}
