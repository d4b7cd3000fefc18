package search

import (
	"github.com/poiesic/qasearch/core"
)

// Operation names passed to SearchMonitor hooks.
const (
	OpExact    = "exact"
	OpFuzzy    = "fuzzy"
	OpSearch   = "search"
	OpCriteria = "criteria"
	OpRelated  = "related"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
//
// Start and Finish bracket every call that consults the candidate source, one pair per call.
// Calls answered without a lookup (blank exact or fuzzy queries, nil criteria, a nil related
// source or a non-positive related limit) report nothing. A blank Search still pages the
// source, so it reports Start with an empty query.
type SearchMonitor interface {
	Start(op, query string)
	AfterExactSearch(results []*core.Document)
	FuzzyFallback(candidateToken string)
	AfterCandidateRetrieval(candidates []*core.Document)
	CandidateScored(doc *core.Document, score float64, kept bool)

	// Degraded reports a failed source call. A failed exact step inside Search or
	// SearchFuzzy reports OpExact and the call continues with fuzzy ranking.
	Degraded(op string, err error)

	Finish(op string, results []*core.Document)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                                   {}
func (n *noopMonitor) AfterExactSearch(_ []*core.Document)                 {}
func (n *noopMonitor) FuzzyFallback(_ string)                              {}
func (n *noopMonitor) AfterCandidateRetrieval(_ []*core.Document)          {}
func (n *noopMonitor) CandidateScored(_ *core.Document, _ float64, _ bool) {}
func (n *noopMonitor) Degraded(_ string, _ error)                          {}
func (n *noopMonitor) Finish(_ string, _ []*core.Document)                 {}
