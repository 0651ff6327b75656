package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Index kinds used as the "index" label
const (
	IndexKmer = "kmer"
	IndexNode = "node"
)

// Metrics holds all Prometheus metrics for an alignment run
type Metrics struct {
	// Index metrics
	IndexBuildDuration *prometheus.HistogramVec
	IndexWindowsTotal  *prometheus.GaugeVec
	IndexBucketsTotal  *prometheus.GaugeVec
	IndexLongestBucket *prometheus.GaugeVec

	// Graph metrics
	GraphBuildDuration prometheus.Histogram
	GraphNodesTotal    prometheus.Gauge
	GraphEdgesTotal    prometheus.Gauge

	// Aligner metrics
	ReadsLocatedTotal    prometheus.Counter
	ReadsUnresolvedTotal prometheus.Counter
	PartitionsTotal      prometheus.Counter
	PartitionDuration    prometheus.Histogram

	// System metrics
	MemoryUsageBytes prometheus.Gauge
	GoroutinesTotal  prometheus.Gauge
}

// NewMetrics creates all metrics and registers them on reg
func NewMetrics(reg prometheus.Registerer, runID string) *Metrics {
	labels := prometheus.Labels{"run_id": runID}
	factory := promauto.With(reg)

	return &Metrics{
		IndexBuildDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "tuna",
			Subsystem:   "index",
			Name:        "build_duration_seconds",
			Help:        "Histogram of index build durations",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4min
		}, []string{"index"}),
		IndexWindowsTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "tuna",
			Subsystem:   "index",
			Name:        "windows_total",
			Help:        "Number of windows stored in the index",
			ConstLabels: labels,
		}, []string{"index"}),
		IndexBucketsTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "tuna",
			Subsystem:   "index",
			Name:        "occupied_buckets_total",
			Help:        "Number of non-empty hash buckets",
			ConstLabels: labels,
		}, []string{"index"}),
		IndexLongestBucket: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "tuna",
			Subsystem:   "index",
			Name:        "longest_bucket",
			Help:        "Length of the longest hash bucket",
			ConstLabels: labels,
		}, []string{"index"}),

		GraphBuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "tuna",
			Subsystem:   "graph",
			Name:        "build_duration_seconds",
			Help:        "Histogram of neighbor graph build durations",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		GraphNodesTotal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   "tuna",
			Subsystem:   "graph",
			Name:        "nodes_total",
			Help:        "Number of graph nodes",
			ConstLabels: labels,
		}),
		GraphEdgesTotal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   "tuna",
			Subsystem:   "graph",
			Name:        "edges_total",
			Help:        "Number of directed neighbor entries",
			ConstLabels: labels,
		}),

		ReadsLocatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   "tuna",
			Subsystem:   "aligner",
			Name:        "reads_located_total",
			Help:        "Total number of reads placed on a segment",
			ConstLabels: labels,
		}),
		ReadsUnresolvedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   "tuna",
			Subsystem:   "aligner",
			Name:        "reads_unresolved_total",
			Help:        "Total number of reads with no placement",
			ConstLabels: labels,
		}),
		PartitionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   "tuna",
			Subsystem:   "aligner",
			Name:        "partitions_total",
			Help:        "Total number of read partitions merged",
			ConstLabels: labels,
		}),
		PartitionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "tuna",
			Subsystem:   "aligner",
			Name:        "partition_duration_seconds",
			Help:        "Histogram of per-partition locate durations",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),

		MemoryUsageBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   "tuna",
			Subsystem:   "system",
			Name:        "memory_usage_bytes",
			Help:        "Heap memory in use",
			ConstLabels: labels,
		}),
		GoroutinesTotal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   "tuna",
			Subsystem:   "system",
			Name:        "goroutines_total",
			Help:        "Number of goroutines",
			ConstLabels: labels,
		}),
	}
}

// Helper methods for recording metrics. All of them accept a nil receiver so
// callers can run without a registry.

// RecordIndexBuild records the shape and build time of one index
func (m *Metrics) RecordIndexBuild(kind string, windows, occupied, longest int, duration time.Duration) {
	if m == nil {
		return
	}
	m.IndexBuildDuration.WithLabelValues(kind).Observe(duration.Seconds())
	m.IndexWindowsTotal.WithLabelValues(kind).Set(float64(windows))
	m.IndexBucketsTotal.WithLabelValues(kind).Set(float64(occupied))
	m.IndexLongestBucket.WithLabelValues(kind).Set(float64(longest))
}

// RecordGraphBuild records graph size and build time
func (m *Metrics) RecordGraphBuild(nodes, edges int, duration time.Duration) {
	if m == nil {
		return
	}
	m.GraphBuildDuration.Observe(duration.Seconds())
	m.GraphNodesTotal.Set(float64(nodes))
	m.GraphEdgesTotal.Set(float64(edges))
}

// RecordPartition records one merged partition
func (m *Metrics) RecordPartition(located, unresolved int, duration time.Duration) {
	if m == nil {
		return
	}
	m.PartitionsTotal.Inc()
	m.PartitionDuration.Observe(duration.Seconds())
	m.ReadsLocatedTotal.Add(float64(located))
	m.ReadsUnresolvedTotal.Add(float64(unresolved))
}

// UpdateSystemStats records process memory and goroutine counts
func (m *Metrics) UpdateSystemStats(memoryBytes uint64, goroutines int) {
	if m == nil {
		return
	}
	m.MemoryUsageBytes.Set(float64(memoryBytes))
	m.GoroutinesTotal.Set(float64(goroutines))
}
