package textsim

import "strings"

const (
	// MinTokenLength is the shortest token kept by Tokenize.
	MinTokenLength = 3
)

// Stop words dropped by Tokenize even when long enough.
var stopWords = map[string]bool{
	"the": true,
}

// Tokenize normalizes query and splits it into tokens.
// Tokens shorter than MinTokenLength and stop words are dropped.
// Order and duplicates are preserved; repeated terms weigh more when scoring.
func Tokenize(query string) []string {
	normalized := Normalize(query)
	if normalized == "" {
		return []string{}
	}

	words := strings.Fields(normalized)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) < MinTokenLength || stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// RemoveDuplicates returns tokens without repeats, in first-seen order.
func RemoveDuplicates(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	unique := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		unique = append(unique, token)
	}
	return unique
}

// ProcessSearchQuery flattens a query into its distinct tokens followed by
// the distinct trigrams of those tokens.
func ProcessSearchQuery(query string) []string {
	tokens := RemoveDuplicates(Tokenize(query))
	keys := append([]string{}, tokens...)
	keys = append(keys, GenerateAllTrigrams(tokens)...)
	return RemoveDuplicates(keys)
}
