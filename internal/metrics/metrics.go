// Package metrics provides Prometheus metrics for the search pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "docsearch"

// Search outcomes
const (
	OutcomeAnswered = "answered"
	OutcomeNoMatch  = "no_match"
	OutcomeError    = "error"
)

// Metrics holds all Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	SearchDuration     *prometheus.HistogramVec
	SearchTotal        *prometheus.CounterVec
	CacheRequestsTotal *prometheus.CounterVec
	IngestedChunks     prometheus.Counter
	ExternalCallsTotal *prometheus.CounterVec
	ExternalCallTime   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SearchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Duration of search requests in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"mode"},
		),
		SearchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_total",
				Help:      "Total number of search requests by outcome",
			},
			[]string{"outcome"},
		),
		CacheRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_requests_total",
				Help:      "Cache lookups by cache and result",
			},
			[]string{"cache", "result"},
		),
		IngestedChunks: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingested_chunks_total",
				Help:      "Total number of chunks written to the document store",
			},
		),
		ExternalCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "external_calls_total",
				Help:      "Outbound calls to model services by HTTP status",
			},
			[]string{"service", "status"},
		),
		ExternalCallTime: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "external_call_duration_seconds",
				Help:      "Duration of outbound calls to model services in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service"},
		),
	}
}

func (m *Metrics) ObserveSearch(mode, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SearchDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	m.SearchTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) AddIngestedChunks(n int) {
	if m == nil {
		return
	}
	m.IngestedChunks.Add(float64(n))
}

// ObserveExternalCall matches pkg/http.ObserveFunc. Status 0 means the round
// trip itself failed.
func (m *Metrics) ObserveExternalCall(service string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.ExternalCallsTotal.WithLabelValues(service, label).Inc()
	m.ExternalCallTime.WithLabelValues(service).Observe(elapsed.Seconds())
}
