package textsim

const (
	// TrigramSize is the width of a trigram window.
	TrigramSize = 3

	// MinTrigramTokenLength is the shortest token that yields trigrams.
	// A 3-character token has no trigrams and is compared by containment.
	MinTrigramTokenLength = 4
)

// GenerateTrigrams returns every 3-character window of token, in order.
// Tokens shorter than MinTrigramTokenLength produce none.
func GenerateTrigrams(token string) []string {
	if len(token) < MinTrigramTokenLength {
		return []string{}
	}

	trigrams := make([]string, 0, len(token)-TrigramSize+1)
	for i := 0; i+TrigramSize <= len(token); i++ {
		trigrams = append(trigrams, token[i:i+TrigramSize])
	}
	return trigrams
}

// GenerateAllTrigrams returns the distinct trigrams of all tokens, in first-seen order.
func GenerateAllTrigrams(tokens []string) []string {
	var all []string
	for _, token := range tokens {
		all = append(all, GenerateTrigrams(token)...)
	}
	return RemoveDuplicates(all)
}
