package search

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/poiesic/qasearch/core"
	"github.com/poiesic/qasearch/storage"
	"github.com/poiesic/qasearch/textsim"
)

// minCandidateTokenLength is the shortest raw token used for the fuzzy candidate lookup.
const minCandidateTokenLength = 3

// Searcher ranks questions from a candidate source.
// It holds no per-call state and is safe for concurrent use.
type Searcher struct {
	source  storage.CandidateSource
	config  *Config
	monitor SearchMonitor
	logger  *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithConfig sets the scoring configuration.
// The configuration is validated; nil keeps the defaults.
func WithConfig(config *Config) Option {
	return func(s *Searcher) error {
		if config == nil {
			return nil
		}
		if err := config.Validate(); err != nil {
			return err
		}
		s.config = config
		return nil
	}
}

// WithMonitor sets a monitor receiving callbacks at each stage of every search.
func WithMonitor(monitor SearchMonitor) Option {
	return func(s *Searcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// NewSearcher creates a new searcher over source.
func NewSearcher(source storage.CandidateSource, opts ...Option) (*Searcher, error) {
	if source == nil {
		return nil, ErrCandidateSourceRequired
	}

	s := &Searcher{
		source:  source,
		config:  DefaultConfig(),
		monitor: &noopMonitor{},
		logger:  slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Config returns the scoring configuration in use.
func (s *Searcher) Config() *Config {
	return s.config
}

// SearchExact returns the candidate source's phrase matches for query.
// A blank query yields no results.
func (s *Searcher) SearchExact(ctx context.Context, query string, limit, offset int) []*core.Document {
	if isBlank(query) {
		return []*core.Document{}
	}
	s.monitor.Start(OpExact, query)

	results, err := s.exact(ctx, query, limit, offset)
	if err != nil {
		return s.degrade(OpExact, err, "query", query)
	}
	s.monitor.Finish(OpExact, results)
	return results
}

// SearchFuzzy returns exact matches when there are any, and otherwise the
// best-scoring candidates for the query's longest token.
// A failed exact lookup counts as no match; only a failed candidate lookup empties the result.
func (s *Searcher) SearchFuzzy(ctx context.Context, query string, limit, offset int) []*core.Document {
	if isBlank(query) {
		return []*core.Document{}
	}
	s.monitor.Start(OpFuzzy, query)

	results := s.exactOrEmpty(ctx, query, limit, offset)
	var err error
	if len(results) == 0 {
		results, err = s.fuzzy(ctx, query, limit, offset)
	}
	if err != nil {
		return s.degrade(OpFuzzy, err, "query", query)
	}
	s.monitor.Finish(OpFuzzy, results)
	return results
}

// Search pages through every question for a blank query.
// Otherwise it tries an exact lookup and falls back to fuzzy ranking when that finds
// nothing or fails.
func (s *Searcher) Search(ctx context.Context, query string, limit, offset int) []*core.Document {
	s.monitor.Start(OpSearch, query)

	var (
		results []*core.Document
		err     error
	)
	if isBlank(query) {
		results, err = s.source.FindPage(ctx, limit, offset)
	} else {
		results = s.exactOrEmpty(ctx, query, limit, offset)
		if len(results) == 0 {
			results, err = s.fuzzy(ctx, query, limit, offset)
		}
	}
	if err != nil {
		return s.degrade(OpSearch, err, "query", query, "limit", limit, "offset", offset)
	}

	results = nonNil(results)
	s.monitor.Finish(OpSearch, results)
	return results
}

// SearchWithCriteria passes criteria straight to the candidate source.
// Nil criteria yield no results.
func (s *Searcher) SearchWithCriteria(ctx context.Context, criteria *core.SearchCriteria) []*core.Document {
	if criteria == nil {
		return []*core.Document{}
	}
	s.monitor.Start(OpCriteria, criteria.SearchText)

	results, err := s.source.Search(ctx, criteria)
	if err != nil {
		return s.degrade(OpCriteria, err, "searchText", criteria.SearchText, "sort", criteria.Sort.String())
	}

	results = nonNil(results)
	s.monitor.Finish(OpCriteria, results)
	return results
}

// RelatedQuestions ranks questions of the source's subject by similarity to source.
// The source question itself is never returned.
func (s *Searcher) RelatedQuestions(ctx context.Context, source *core.Document, limit int) []*core.Document {
	if source == nil || limit <= 0 {
		return []*core.Document{}
	}

	searchText := strings.TrimSpace(source.Title + " " + strings.Join(source.Tags, " "))
	s.monitor.Start(OpRelated, searchText)

	criteria := &core.SearchCriteria{
		SearchText: searchText,
		SubjectId:  source.SubjectId,
		Limit:      relatedFetchLimit(limit),
		TextMatch:  core.TextMatchAnyTerm,
	}
	candidates, err := s.source.Search(ctx, criteria)
	if err != nil {
		return s.degrade(OpRelated, err, "sourceID", source.Id)
	}
	s.monitor.AfterCandidateRetrieval(candidates)

	scored := make([]core.ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil || candidate.Id == source.Id {
			continue
		}
		score := s.config.documentSimilarity(source, candidate)
		s.monitor.CandidateScored(candidate, score, true)
		scored = append(scored, core.ScoredCandidate{Document: candidate, Score: score})
	}
	rankCandidates(scored)

	results := pageCandidates(scored, limit, 0)
	s.monitor.Finish(OpRelated, results)
	return results
}

// exact runs the phrase lookup without degrading errors.
func (s *Searcher) exact(ctx context.Context, query string, limit, offset int) ([]*core.Document, error) {
	criteria := &core.SearchCriteria{
		SearchText: query,
		Limit:      limit,
		Offset:     offset,
	}
	results, err := s.source.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}
	results = nonNil(results)
	s.monitor.AfterExactSearch(results)
	return results, nil
}

// exactOrEmpty runs the phrase lookup for a combined search.
// A failure is logged and reported to the monitor as a degraded exact step, then treated as no match.
func (s *Searcher) exactOrEmpty(ctx context.Context, query string, limit, offset int) []*core.Document {
	results, err := s.exact(ctx, query, limit, offset)
	if err != nil {
		s.logger.Error("exact lookup failed, continuing with fuzzy ranking", "query", query, "err", err)
		s.monitor.Degraded(OpExact, err)
		return []*core.Document{}
	}
	return results
}

// fuzzy scores a bounded candidate set against the query tokens.
func (s *Searcher) fuzzy(ctx context.Context, query string, limit, offset int) ([]*core.Document, error) {
	queryTokens := textsim.Tokenize(query)
	if len(queryTokens) == 0 {
		// Nothing can reach the threshold without tokens
		return []*core.Document{}, nil
	}

	candidateToken := pickCandidateToken(query, longestToken(queryTokens))
	s.monitor.FuzzyFallback(candidateToken)
	s.logger.Debug("exact search empty, falling back to fuzzy", "query", query, "candidateToken", candidateToken)

	criteria := &core.SearchCriteria{
		SearchText: candidateToken,
		Limit:      s.config.MaxFuzzyCandidates,
	}
	candidates, err := s.source.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}
	s.monitor.AfterCandidateRetrieval(candidates)

	scored := make([]core.ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		score := s.config.relevanceScore(queryTokens, candidate)
		kept := score >= s.config.SimilarityThreshold
		s.monitor.CandidateScored(candidate, score, kept)
		if kept {
			scored = append(scored, core.ScoredCandidate{Document: candidate, Score: score})
		}
	}
	rankCandidates(scored)

	return pageCandidates(scored, limit, offset), nil
}

// degrade logs a data-access failure and converts it into an empty result.
func (s *Searcher) degrade(op string, err error, attrs ...any) []*core.Document {
	s.logger.Error("search degraded to empty result", append([]any{"op", op, "err", err}, attrs...)...)
	s.monitor.Degraded(op, err)
	results := []*core.Document{}
	s.monitor.Finish(op, results)
	return results
}

// longestToken returns the first of the longest tokens.
func longestToken(tokens []string) string {
	longest := ""
	for _, token := range tokens {
		if len(token) > len(longest) {
			longest = token
		}
	}
	return longest
}

// pickCandidateToken recovers the raw-query spelling of the chosen token.
// It prefers a raw token normalizing to chosen, then the longest raw token of usable length,
// then the whole trimmed query.
func pickCandidateToken(query, chosen string) string {
	trimmed := strings.TrimSpace(query)
	raw := strings.Fields(trimmed)

	candidate := ""
	for _, token := range raw {
		if textsim.Normalize(token) == chosen {
			candidate = token
			break
		}
	}
	if candidate == "" {
		for _, token := range raw {
			if len(token) >= minCandidateTokenLength && len(token) > len(candidate) {
				candidate = token
			}
		}
	}
	if len(candidate) < minCandidateTokenLength {
		return trimmed
	}
	return candidate
}

// relatedFetchLimit doubles limit, saturating at math.MaxInt.
func relatedFetchLimit(limit int) int {
	if limit > math.MaxInt/2 {
		return math.MaxInt
	}
	return limit * 2
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func nonNil(docs []*core.Document) []*core.Document {
	if docs == nil {
		return []*core.Document{}
	}
	return docs
}
