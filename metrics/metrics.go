// Package metrics exposes Prometheus collectors for search activity.
//
// A Monitor implements search.SearchMonitor and turns every callback into
// counter and histogram observations, so it can be passed to the searcher
// with search.WithMonitor:
//
//	monitor, err := metrics.NewMonitor(prometheus.DefaultRegisterer)
//	searcher, err := search.NewSearcher(repo, search.WithMonitor(monitor))
package metrics

import (
	"strconv"

	"github.com/poiesic/qasearch/core"
	"github.com/poiesic/qasearch/search"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "qasearch"

// Monitor records search activity as Prometheus metrics.
// It holds no per-call state and is safe for concurrent use.
type Monitor struct {
	searchesTotal   *prometheus.CounterVec
	degradedTotal   *prometheus.CounterVec
	fallbacksTotal  prometheus.Counter
	exactHitsTotal  *prometheus.CounterVec
	scoredTotal     *prometheus.CounterVec
	candidateScores prometheus.Histogram
	candidateSets   prometheus.Histogram
	resultSizes     *prometheus.HistogramVec
}

var _ search.SearchMonitor = (*Monitor)(nil)

// NewMonitor creates the collectors and registers them on reg.
func NewMonitor(reg prometheus.Registerer) (*Monitor, error) {
	m := &Monitor{
		searchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Total number of search operations started",
			},
			[]string{"op"},
		),
		degradedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "degraded_total",
				Help:      "Search operations that degraded to an empty result after a data-access failure",
			},
			[]string{"op"},
		),
		fallbacksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fuzzy_fallbacks_total",
				Help:      "Exact lookups that found nothing and fell back to fuzzy ranking",
			},
		),
		exactHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exact_lookups_total",
				Help:      "Exact lookups by outcome",
			},
			[]string{"result"}, // "hit" / "miss"
		),
		scoredTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "candidates_scored_total",
				Help:      "Candidates scored, split by whether they were kept",
			},
			[]string{"kept"},
		),
		candidateScores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "candidate_score",
				Help:      "Distribution of candidate relevance scores",
				Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1, 1.2},
			},
		),
		candidateSets: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "candidate_set_size",
				Help:      "Number of candidates fetched for scoring",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		resultSizes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "result_size",
				Help:      "Number of documents returned per operation",
				Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
			},
			[]string{"op"},
		),
	}

	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Monitor) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.searchesTotal,
		m.degradedTotal,
		m.fallbacksTotal,
		m.exactHitsTotal,
		m.scoredTotal,
		m.candidateScores,
		m.candidateSets,
		m.resultSizes,
	}
}

func (m *Monitor) Start(op, _ string) {
	m.searchesTotal.WithLabelValues(op).Inc()
}

func (m *Monitor) AfterExactSearch(results []*core.Document) {
	if len(results) > 0 {
		m.exactHitsTotal.WithLabelValues("hit").Inc()
		return
	}
	m.exactHitsTotal.WithLabelValues("miss").Inc()
}

func (m *Monitor) FuzzyFallback(_ string) {
	m.fallbacksTotal.Inc()
}

func (m *Monitor) AfterCandidateRetrieval(candidates []*core.Document) {
	m.candidateSets.Observe(float64(len(candidates)))
}

func (m *Monitor) CandidateScored(_ *core.Document, score float64, kept bool) {
	m.scoredTotal.WithLabelValues(strconv.FormatBool(kept)).Inc()
	m.candidateScores.Observe(score)
}

func (m *Monitor) Degraded(op string, _ error) {
	m.degradedTotal.WithLabelValues(op).Inc()
}

func (m *Monitor) Finish(op string, results []*core.Document) {
	m.resultSizes.WithLabelValues(op).Observe(float64(len(results)))
}
