package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/upenn-cis198/final-project-rna-seq-project/internal/errors"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/metrics"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/model"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/util/workerpool"
)

// AlignerService fans reads out over partitions and merges the per-partition
// counts
type AlignerService struct {
	locator    *LocatorService
	partitions int
	metrics    *metrics.Metrics
	logger     *zap.Logger

	// OnChunkMerged, when set, is called by the collector with the size of
	// each partition as it is merged
	OnChunkMerged func(reads int)
}

// chunkResult is what one worker hands to the collector
type chunkResult struct {
	index    int
	reads    int
	result   *model.AlignmentResult
	duration time.Duration
}

// NewAlignerService creates a new aligner service. m may be nil.
func NewAlignerService(locator *LocatorService, partitions int, m *metrics.Metrics, logger *zap.Logger) *AlignerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlignerService{
		locator:    locator,
		partitions: partitions,
		metrics:    m,
		logger:     logger,
	}
}

// Partition splits reads into n contiguous chunks of len(reads)/n reads; the
// final chunk also takes the remainder
func Partition(reads []string, n int) ([][]string, error) {
	if n <= 0 || n > len(reads) {
		return nil, errors.InvalidPartitions(n, len(reads))
	}

	size := len(reads) / n
	chunks := make([][]string, n)
	for i := 0; i < n-1; i++ {
		chunks[i] = reads[i*size : (i+1)*size]
	}
	chunks[n-1] = reads[(n-1)*size:]
	return chunks, nil
}

// MapReduce locates every read, one worker per partition, and returns the
// summed counts. Reads that cannot be placed are counted as unresolved. The
// first internal error aborts the run; partitions that already started run
// to completion.
func (s *AlignerService) MapReduce(ctx context.Context, reads []string) (*model.AlignmentResult, error) {
	chunks, err := Partition(reads, s.partitions)
	if err != nil {
		return nil, err
	}

	pool := workerpool.NewWorkerPool(&workerpool.Config{
		Name:       "aligner",
		MaxWorkers: len(chunks),
		Logger:     s.logger,
	})

	results := make(chan chunkResult, len(chunks))
	tasks := make([]workerpool.Task, len(chunks))
	for i, chunk := range chunks {
		i, chunk := i, chunk
		tasks[i] = workerpool.Task{
			ID: fmt.Sprintf("partition-%d", i),
			Fn: func(context.Context) error {
				start := time.Now()
				result, err := s.locator.LocateAll(chunk)
				if err != nil {
					return err
				}
				results <- chunkResult{index: i, reads: len(chunk), result: result, duration: time.Since(start)}
				return nil
			},
		}
	}

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- pool.Run(ctx, tasks)
		close(results)
	}()

	total := &model.AlignmentResult{Counts: model.NewSegmentCounts()}
	for res := range results {
		total.Counts.Merge(res.result.Counts)
		total.Located += res.result.Located
		total.Unresolved += res.result.Unresolved

		s.metrics.RecordPartition(res.result.Located, res.result.Unresolved, res.duration)
		s.logger.Debug("Partition merged",
			zap.Int("partition", res.index),
			zap.Int("reads", res.reads),
			zap.Int("located", res.result.Located),
			zap.Duration("duration", res.duration))
		if s.OnChunkMerged != nil {
			s.OnChunkMerged(res.reads)
		}
	}

	if err := <-done; err != nil {
		s.logger.Error("Alignment run failed", zap.Error(err))
		return nil, err
	}

	stats := pool.Stats()
	s.logger.Info("Alignment run completed",
		zap.Int("reads", len(reads)),
		zap.Int("partitions", len(chunks)),
		zap.Int("located", total.Located),
		zap.Int("unresolved", total.Unresolved),
		zap.Float64("success_rate", stats.SuccessRate()),
		zap.Duration("duration", time.Since(start)))

	return total, nil
}
