package textsim

import "strings"

// CalculateSimilarity scores two terms in [0, 1].
//
// Both inputs are normalized first. Empty terms score 0 and equal terms 1.
// When either term is too short for trigrams, the score is the length ratio
// if one contains the other and 0 otherwise. Longer terms are compared by the
// Jaccard index of their trigram sets.
func CalculateSimilarity(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)
	if na == "" || nb == "" {
		return 0.0
	}
	if na == nb {
		return 1.0
	}

	if len(na) < MinTrigramTokenLength || len(nb) < MinTrigramTokenLength {
		return containmentRatio(na, nb)
	}

	return Jaccard(GenerateTrigrams(na), GenerateTrigrams(nb))
}

// containmentRatio returns min/max length when one string contains the other.
func containmentRatio(a, b string) float64 {
	if !strings.Contains(a, b) && !strings.Contains(b, a) {
		return 0.0
	}
	shorter, longer := len(a), len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	return float64(shorter) / float64(longer)
}

// Jaccard returns |A ∩ B| / |A ∪ B| over the distinct elements of a and b.
// Two empty inputs score 0.
func Jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for item := range setA {
		if _, ok := setB[item]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
