// Package metrics exposes Prometheus telemetry for the oracle host.
package metrics

import (
	"net/http"
	"time"

	"github.com/LeJamon/goOracle/internal/core/engine"
	"github.com/LeJamon/goOracle/internal/core/oracle"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records invocation and ledger metrics in its own registry.
type Collector struct {
	registry *prometheus.Registry

	invocations       *prometheus.CounterVec
	invocationLatency *prometheus.HistogramVec
	priceUpdates      *prometheus.CounterVec
}

// NewCollector creates a collector whose metrics are prefixed with namespace.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "oracled"
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
	}

	c.invocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "invocations_total",
			Help:      "Total number of invocations by method and result code",
		},
		[]string{"method", "result"},
	)

	c.invocationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "invocation_duration_seconds",
			Help:      "Time taken to run an invocation",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 100us to ~1.6s
		},
		[]string{"method"},
	)

	c.priceUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "price_updates_total",
			Help:      "Total number of committed price updates by component",
		},
		[]string{"component"},
	)

	c.registry.MustRegister(
		c.invocations,
		c.invocationLatency,
		c.priceUpdates,
		collectors.NewGoCollector(),
	)
	return c
}

// ObserveInvocation implements engine.Observer.
func (c *Collector) ObserveInvocation(method string, result engine.Result, elapsed time.Duration) {
	c.invocations.WithLabelValues(method, result.String()).Inc()
	c.invocationLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObservePriceUpdate is an engine.PriceListener.
func (c *Collector) ObservePriceUpdate(component types.ComponentAddress, _ oracle.Update) {
	c.priceUpdates.WithLabelValues(component.String()).Inc()
}

// RegisterLedgerCache exports the hit and miss counters of the ledger
// read cache.
func (c *Collector) RegisterLedgerCache(namespace string, stats func() (hits, misses uint64)) {
	if namespace == "" {
		namespace = "oracled"
	}
	c.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "cache_hits_total",
			Help:      "Ledger reads served from the cache",
		}, func() float64 {
			hits, _ := stats()
			return float64(hits)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "cache_misses_total",
			Help:      "Ledger reads that went to the database",
		}, func() float64 {
			_, misses := stats()
			return float64(misses)
		}),
	)
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collected metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
