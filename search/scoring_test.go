package search

import (
	"math"
	"testing"

	"github.com/poiesic/qasearch/core"
	"github.com/poiesic/qasearch/textsim"
	"github.com/stretchr/testify/assert"
)

func TestTokenSetSimilarity(t *testing.T) {
	t.Run("empty sides score zero", func(t *testing.T) {
		assert.Equal(t, 0.0, tokenSetSimilarity(nil, []string{"java"}))
		assert.Equal(t, 0.0, tokenSetSimilarity([]string{"java"}, nil))
	})

	t.Run("best match per query token", func(t *testing.T) {
		score := tokenSetSimilarity([]string{"java", "cat"}, []string{"java", "cats"})
		assert.InDelta(t, (1.0+0.75)/2, score, 1e-9)
	})

	t.Run("repeated query tokens weigh more", func(t *testing.T) {
		once := tokenSetSimilarity([]string{"java", "rust"}, []string{"java"})
		twice := tokenSetSimilarity([]string{"java", "java", "rust"}, []string{"java"})
		assert.InDelta(t, 0.5, once, 1e-9)
		assert.InDelta(t, 2.0/3.0, twice, 1e-9)
	})
}

func TestRelevanceScore(t *testing.T) {
	cfg := DefaultConfig()
	query := textsim.Tokenize("Java Programming")

	tests := []struct {
		name string
		doc  *core.Document
		want float64
	}{
		{"title and content match", &core.Document{Title: "Java Programming", Content: "java programming"}, 1.0},
		{"half title full content", &core.Document{Title: "Java tips", Content: "programming in java"}, 0.65},
		{"no overlap", &core.Document{Title: "Tomatoes", Content: "basil"}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cfg.relevanceScore(query, tt.doc), 1e-9)
		})
	}
}

func TestTagJaccard(t *testing.T) {
	assert.InDelta(t, 1.0/3.0, tagJaccard([]string{"java", "spring"}, []string{"java", "hibernate"}), 1e-9)
	assert.InDelta(t, 1.0, tagJaccard([]string{"Java", "C#"}, []string{"java", "c#", "JAVA"}), 1e-9)
	assert.Equal(t, 0.0, tagJaccard(nil, nil))
	assert.Equal(t, 0.0, tagJaccard([]string{"!!"}, []string{"go"}))
}

func TestDocumentSimilarity_SubjectBonus(t *testing.T) {
	cfg := DefaultConfig()
	a := &core.Document{Id: 1, Title: "Unrelated", SubjectId: core.IDPtr(3)}
	b := &core.Document{Id: 2, Title: "Different", SubjectId: core.IDPtr(3)}
	c := &core.Document{Id: 3, Title: "Different", SubjectId: core.IDPtr(4)}
	d := &core.Document{Id: 4, Title: "Different"}

	assert.InDelta(t, 0.2, cfg.documentSimilarity(a, b), 1e-9)
	assert.InDelta(t, 0.0, cfg.documentSimilarity(a, c), 1e-9)
	assert.InDelta(t, 0.0, cfg.documentSimilarity(a, d), 1e-9)
}

func TestRankCandidates(t *testing.T) {
	scored := []core.ScoredCandidate{
		{Document: &core.Document{Id: 5}, Score: 0.6},
		{Document: &core.Document{Id: 2}, Score: 0.9},
		{Document: &core.Document{Id: 1}, Score: 0.6},
	}
	rankCandidates(scored)

	assert.Equal(t, []core.ID{2, 1, 5}, docIDs(pageCandidates(scored, 10, 0)))
	assert.Equal(t, []core.ID{1}, docIDs(pageCandidates(scored, 1, 1)))
	assert.Empty(t, pageCandidates(scored, 0, 0))
	assert.Empty(t, pageCandidates(scored, 3, 3))
	assert.Equal(t, []core.ID{1, 5}, docIDs(pageCandidates(scored, math.MaxInt, 1)))
	assert.Equal(t, []core.ID{2, 1, 5}, docIDs(pageCandidates(scored, math.MaxInt, -3)))
}
