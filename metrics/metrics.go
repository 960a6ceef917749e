package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	retrieverLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assistant_retriever_latency_ms",
		Help:    "Latency of retriever calls in milliseconds",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 200, 500},
	}, []string{"type"})

	retrieverResults = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assistant_retriever_results",
		Help:    "Number of results returned by a retriever",
		Buckets: []float64{0, 1, 2, 3, 5, 10},
	}, []string{"type"})

	promptTokens = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_prompt_tokens",
		Help:    "Prompt token usage per completion",
		Buckets: []float64{100, 250, 500, 1000, 2000, 4000, 8000, 16000},
	})

	completionFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assistant_completion_failures_total",
		Help: "Chat completions that returned an error",
	})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_cache_lookups_total",
		Help: "Retrieval cache lookups by outcome",
	}, []string{"outcome"})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(retrieverLatency, retrieverResults, promptTokens, completionFailures, cacheLookups)
	})
}

// ObserveRetriever records latency and result size for a retriever type.
func ObserveRetriever(typ string, start time.Time, results int) {
	ensureRegistered()
	dur := time.Since(start).Milliseconds()
	retrieverLatency.WithLabelValues(typ).Observe(float64(dur))
	retrieverResults.WithLabelValues(typ).Observe(float64(results))
}

// ObservePromptTokens records prompt token usage for a completion.
func ObservePromptTokens(n int) {
	ensureRegistered()
	if n >= 0 {
		promptTokens.Observe(float64(n))
	}
}

// IncCompletionFailure counts a failed completion call.
func IncCompletionFailure() {
	ensureRegistered()
	completionFailures.Inc()
}

// IncCacheLookup records a cache hit or miss.
func IncCacheLookup(hit bool) {
	ensureRegistered()
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	cacheLookups.WithLabelValues(outcome).Inc()
}

// Collectors exposes all collectors for external registration with a custom registry.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		retrieverLatency, retrieverResults, promptTokens, completionFailures, cacheLookups,
	}
}
