// Package metrics exposes prometheus counters for the RPC layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RPCCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainscope",
		Subsystem: "rpc",
		Name:      "calls_total",
		Help:      "RPC dispatches per endpoint, method and outcome",
	}, []string{"endpoint", "method", "outcome"})

	RPCFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainscope",
		Subsystem: "rpc",
		Name:      "fallbacks_total",
		Help:      "Rotations to a backup endpoint after a retryable failure",
	}, []string{"method"})

	HeadCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chainscope",
		Subsystem: "rpc",
		Name:      "head_cache_hits_total",
		Help:      "Block header reads served from the TTL cache",
	})
)
