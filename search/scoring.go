package search

import (
	"cmp"
	"slices"

	"github.com/poiesic/qasearch/core"
	"github.com/poiesic/qasearch/textsim"
)

// relevanceScore weighs how well a document's title and content match the query tokens.
func (c *Config) relevanceScore(queryTokens []string, doc *core.Document) float64 {
	titleScore := tokenSetSimilarity(queryTokens, textsim.Tokenize(doc.Title))
	contentScore := tokenSetSimilarity(queryTokens, textsim.Tokenize(doc.Content))
	return c.TitleMatchWeight*titleScore + c.ContentMatchWeight*contentScore
}

// documentSimilarity scores a candidate against the source question for related-question ranking.
func (c *Config) documentSimilarity(source, candidate *core.Document) float64 {
	titleScore := tokenSetSimilarity(textsim.Tokenize(source.Title), textsim.Tokenize(candidate.Title))
	contentScore := tokenSetSimilarity(textsim.Tokenize(source.Content), textsim.Tokenize(candidate.Content))
	tagScore := tagJaccard(source.Tags, candidate.Tags)

	score := c.RelatedTitleWeight*titleScore + c.RelatedContentWeight*contentScore + c.RelatedTagWeight*tagScore
	if source.SameSubject(candidate) {
		score += c.SubjectBonus
	}
	return score
}

// tokenSetSimilarity averages, over every query token, its best similarity against any document token.
// Repeated query tokens count once per occurrence.
func tokenSetSimilarity(queryTokens, docTokens []string) float64 {
	if len(queryTokens) == 0 || len(docTokens) == 0 {
		return 0
	}

	total := 0.0
	for _, q := range queryTokens {
		best := 0.0
		for _, d := range docTokens {
			if s := textsim.CalculateSimilarity(q, d); s > best {
				best = s
				if best == 1 {
					break
				}
			}
		}
		total += best
	}
	return total / float64(len(queryTokens))
}

// tagJaccard compares two tag lists as sets of normalized tags.
func tagJaccard(a, b []string) float64 {
	return textsim.Jaccard(normalizeTags(a), normalizeTags(b))
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if n := textsim.Normalize(tag); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// rankCandidates orders scored candidates by descending score, then ascending ID.
func rankCandidates(scored []core.ScoredCandidate) {
	slices.SortStableFunc(scored, func(a, b core.ScoredCandidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Document.Id, b.Document.Id)
	})
}

// pageCandidates applies offset then limit and unwraps the documents.
func pageCandidates(scored []core.ScoredCandidate, limit, offset int) []*core.Document {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= len(scored) {
		return []*core.Document{}
	}
	end := offset + min(limit, len(scored)-offset)
	results := make([]*core.Document, 0, end-offset)
	for _, sc := range scored[offset:end] {
		results = append(results, sc.Document)
	}
	return results
}
