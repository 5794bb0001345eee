package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	EntityMutations     *prometheus.CounterVec
	ErrorsCount         *prometheus.CounterVec
	CacheLookups        *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered on reg.
// A nil registerer uses the default prometheus registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The total number of handled HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken to handle HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		EntityMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entity_mutations_total",
			Help:      "The total number of persisted mutations per entity",
		}, []string{"entity", "action"}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distance_cache_lookups_total",
			Help:      "Distance cache lookups by result",
		}, []string{"result"}),
	}
}

// NewNopMetrics returns metrics registered on a throwaway registry
func NewNopMetrics() *Metrics {
	return NewMetrics("napo", prometheus.NewRegistry())
}

// Mutation counts a persisted mutation
func (m *Metrics) Mutation(entity, action string) {
	m.EntityMutations.WithLabelValues(entity, action).Inc()
}

// Error counts a failed operation
func (m *Metrics) Error(operation string) {
	m.ErrorsCount.WithLabelValues(operation).Inc()
}

// CacheLookup counts a cache hit or miss
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
