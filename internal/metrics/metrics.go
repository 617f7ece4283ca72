// Package metrics defines kprove's prometheus instrumentation: counters and
// gauges for nodes created, backend calls, cache hits, and proof duration.
// A Registry bundles them so the prover and client take one value rather
// than reaching for the global prometheus default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every metric kprove exports, registered against its own
// *prometheus.Registry rather than the global default so tests and
// multiple driver instances in one process don't collide.
type Registry struct {
	reg *prometheus.Registry

	NodesCreated     prometheus.Counter
	BackendCalls     *prometheus.CounterVec
	BackendErrors    *prometheus.CounterVec
	CacheHits        *prometheus.CounterVec
	CacheMisses      *prometheus.CounterVec
	ProofDuration    *prometheus.HistogramVec
	PendingNodes     prometheus.Gauge
	InFlightRequests prometheus.Gauge
}

// New constructs a Registry with every metric registered.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		NodesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kprove",
			Name:      "nodes_created_total",
			Help:      "Total number of CFG nodes created.",
		}),
		BackendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kprove",
			Name:      "backend_calls_total",
			Help:      "Total number of backend RPC calls, by method.",
		}, []string{"method"}),
		BackendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kprove",
			Name:      "backend_errors_total",
			Help:      "Total number of backend RPC errors, by method and kind.",
		}, []string{"method", "kind"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kprove",
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits, by cache name.",
		}, []string{"cache"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kprove",
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses, by cache name.",
		}, []string{"cache"}),
		ProofDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kprove",
			Name:      "proof_duration_seconds",
			Help:      "Wall-clock duration of a completed proof run, by terminal status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		PendingNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kprove",
			Name:      "pending_nodes",
			Help:      "Current number of pending (unexplored) CFG nodes.",
		}),
		InFlightRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kprove",
			Name:      "in_flight_backend_requests",
			Help:      "Current number of in-flight backend RPC calls.",
		}),
	}

	reg.MustRegister(
		r.NodesCreated,
		r.BackendCalls,
		r.BackendErrors,
		r.CacheHits,
		r.CacheMisses,
		r.ProofDuration,
		r.PendingNodes,
		r.InFlightRequests,
	)
	return r
}

// Gatherer exposes the registry for an HTTP /metrics handler.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }
