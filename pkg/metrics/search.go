package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Corpus cache outcomes.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// SearchMetrics tracks shop search traffic and the corpus cache.
type SearchMetrics struct {
	duration *prometheus.HistogramVec
	results  prometheus.Histogram
	cache    *prometheus.CounterVec
}

// NewSearchMetrics registers the search metrics on the provided registerer.
func NewSearchMetrics(reg prometheus.Registerer) *SearchMetrics {
	if reg == nil {
		return &SearchMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "Time spent answering a shop search.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"located"})
	results := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_results",
		Help:      "Number of shops returned per search.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_corpus_cache_total",
		Help:      "Search corpus cache lookups by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, results, cache)
	return &SearchMetrics{duration: duration, results: results, cache: cache}
}

// ObserveSearch records one search call.
func (s *SearchMetrics) ObserveSearch(withLocation bool, took time.Duration, results int) {
	if s == nil || s.duration == nil {
		return
	}
	located := "false"
	if withLocation {
		located = "true"
	}
	s.duration.WithLabelValues(located).Observe(took.Seconds())
	s.results.Observe(float64(results))
}

// IncCache records a corpus cache hit or miss.
func (s *SearchMetrics) IncCache(outcome string) {
	if s == nil || s.cache == nil {
		return
	}
	s.cache.WithLabelValues(normalizeLabel(outcome)).Inc()
}
