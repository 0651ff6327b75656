package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/upenn-cis198/final-project-rna-seq-project/internal/graph"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/index"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/metrics"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/model"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/validation"
)

// IndexService builds the k-mer index and the neighbor graph for a run
type IndexService struct {
	validator *validation.Validator
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewIndexService creates a new index service. m may be nil.
func NewIndexService(m *metrics.Metrics, logger *zap.Logger) *IndexService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndexService{
		validator: validation.NewValidator(),
		metrics:   m,
		logger:    logger,
	}
}

// Build indexes segments with window k, then links l-windows within d
// substitutions
func (s *IndexService) Build(segments *model.SegmentSet, k, l, d int) (*graph.Graph, error) {
	if err := s.validator.ValidateParameters(k, l, d); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateSegments(segments, k, l); err != nil {
		return nil, err
	}

	if !graph.Complete(l, k, d) {
		s.logger.Warn("Window lengths too close for complete neighbor search; some neighbors may be missed",
			zap.Int("k", k),
			zap.Int("l", l),
			zap.Int("d", d),
			zap.Int("min_l", (d+1)*k))
	}

	start := time.Now()
	kmerIndex, err := index.Build(segments, k)
	if err != nil {
		return nil, err
	}
	s.recordIndex(metrics.IndexKmer, kmerIndex, time.Since(start))

	start = time.Now()
	nodeIndex, err := index.Build(segments, l)
	if err != nil {
		return nil, err
	}
	s.recordIndex(metrics.IndexNode, nodeIndex, time.Since(start))

	start = time.Now()
	g, err := graph.FromIndexes(kmerIndex, nodeIndex, d)
	if err != nil {
		s.logger.Error("Failed to build neighbor graph", zap.Error(err))
		return nil, err
	}
	duration := time.Since(start)

	stats := g.Stats()
	s.metrics.RecordGraphBuild(stats.Nodes, stats.Edges, duration)
	s.logger.Info("Neighbor graph built",
		zap.Int("nodes", stats.Nodes),
		zap.Int("edges", stats.Edges),
		zap.Int("isolated", stats.Isolated),
		zap.Int("max_degree", stats.MaxDegree),
		zap.Duration("duration", duration))

	return g, nil
}

func (s *IndexService) recordIndex(kind string, idx *index.SequenceIndex, duration time.Duration) {
	stats := idx.Stats()
	s.metrics.RecordIndexBuild(kind, stats.Windows, stats.OccupiedBuckets, stats.LongestBucket, duration)
	s.logger.Info("Index built",
		zap.String("index", kind),
		zap.Int("window", stats.Window),
		zap.Int("windows", stats.Windows),
		zap.Int("buckets", stats.Size),
		zap.Int("occupied_buckets", stats.OccupiedBuckets),
		zap.Int("longest_bucket", stats.LongestBucket),
		zap.Float64("load_factor", stats.LoadFactor),
		zap.Duration("duration", duration))
}
