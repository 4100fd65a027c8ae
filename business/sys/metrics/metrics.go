// Package metrics constructs the metrics the node publishes for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ledger"

// Metrics holds the set of collectors for the node. It implements the
// state.Metrics interface.
type Metrics struct {
	registry *prometheus.Registry

	requests       prometheus.Counter
	errors         prometheus.Counter
	panics         prometheus.Counter
	blocks         prometheus.Counter
	depth          prometheus.Gauge
	powDuration    prometheus.Histogram
	replacements   prometheus.Counter
	peerFailures   prometheus.Counter
	snapshotFailed prometheus.Counter
}

// New constructs the collectors and registers them with a private registry.
// A private registry keeps tests from colliding on the global one.
func New() *Metrics {
	m := Metrics{
		registry: prometheus.NewRegistry(),

		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Number of http requests handled.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Number of http requests that returned an error.",
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panics_total",
			Help:      "Number of http requests that panicked.",
		}),
		blocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_mined_total",
			Help:      "Number of blocks mined by this node.",
		}),
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chain_depth",
			Help:      "Number of blocks in the local chain.",
		}),
		powDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pow_duration_seconds",
			Help:      "Time spent searching for a proof.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		replacements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chain_replacements_total",
			Help:      "Number of times the local chain was replaced by a peer chain.",
		}),
		peerFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "peer_failures_total",
			Help:      "Number of peers that failed during consensus.",
		}),
		snapshotFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_failures_total",
			Help:      "Number of snapshots that could not be written.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.errors,
		m.panics,
		m.blocks,
		m.depth,
		m.powDuration,
		m.replacements,
		m.peerFailures,
		m.snapshotFailed,
	)

	return &m
}

// Handler returns the handler that serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// =============================================================================

// Request records a handled http request.
func (m *Metrics) Request() {
	m.requests.Inc()
}

// Error records a http request that returned an error.
func (m *Metrics) Error() {
	m.errors.Inc()
}

// Panic records a http request that panicked.
func (m *Metrics) Panic() {
	m.panics.Inc()
}

// =============================================================================

// ChainLoaded records the depth of the chain the node started with.
func (m *Metrics) ChainLoaded(depth int) {
	m.depth.Set(float64(depth))
}

// BlockMined records a newly mined block.
func (m *Metrics) BlockMined(depth int, duration time.Duration) {
	m.blocks.Inc()
	m.depth.Set(float64(depth))
	m.powDuration.Observe(duration.Seconds())
}

// ChainReplaced records the adoption of a peer chain.
func (m *Metrics) ChainReplaced(depth int) {
	m.replacements.Inc()
	m.depth.Set(float64(depth))
}

// PeerFailed records a peer that failed during consensus.
func (m *Metrics) PeerFailed() {
	m.peerFailures.Inc()
}

// SnapshotFailed records a snapshot that could not be written.
func (m *Metrics) SnapshotFailed() {
	m.snapshotFailed.Inc()
}
