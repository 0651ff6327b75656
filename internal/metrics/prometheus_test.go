package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upenn-cis198/final-project-rna-seq-project/internal/metrics"
)

func TestNewMetrics_RegistersOnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg, "test")
	require.NotNil(t, m)

	m.RecordIndexBuild(metrics.IndexKmer, 120, 80, 4, 10*time.Millisecond)
	m.RecordGraphBuild(100, 250, time.Second)

	assert.Equal(t, 120.0, testutil.ToFloat64(m.IndexWindowsTotal.WithLabelValues(metrics.IndexKmer)))
	assert.Equal(t, 80.0, testutil.ToFloat64(m.IndexBucketsTotal.WithLabelValues(metrics.IndexKmer)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.IndexLongestBucket.WithLabelValues(metrics.IndexKmer)))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.GraphNodesTotal))
	assert.Equal(t, 250.0, testutil.ToFloat64(m.GraphEdgesTotal))

	count, err := testutil.GatherAndCount(reg, "tuna_index_build_duration_seconds", "tuna_graph_nodes_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecordPartition(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test")

	m.RecordPartition(7, 3, time.Millisecond)
	m.RecordPartition(5, 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PartitionsTotal))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.ReadsLocatedTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ReadsUnresolvedTotal))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.RecordIndexBuild(metrics.IndexNode, 1, 1, 1, time.Millisecond)
		m.RecordGraphBuild(1, 1, time.Millisecond)
		m.RecordPartition(1, 1, time.Millisecond)
		m.UpdateSystemStats(1, 1)
	})
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.NewMetrics(prometheus.NewRegistry(), "a")
		metrics.NewMetrics(prometheus.NewRegistry(), "b")
	})
}
