package workerpool

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Task represents a unit of work to be executed
type Task struct {
	ID string
	Fn func(context.Context) error
}

// WorkerPool runs batches of tasks on a bounded number of goroutines.
// A failed task stops later tasks from starting, but tasks already running
// are left to finish.
type WorkerPool struct {
	name           string
	maxWorkers     int
	logger         *zap.Logger
	activeWorkers  int32
	totalTasks     uint64
	completedTasks uint64
	failedTasks    uint64
	skippedTasks   uint64
}

// Config holds worker pool configuration
type Config struct {
	Name       string
	MaxWorkers int
	Logger     *zap.Logger
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(cfg *Config) *WorkerPool {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &WorkerPool{
		name:       cfg.Name,
		maxWorkers: cfg.MaxWorkers,
		logger:     cfg.Logger,
	}
}

// Run executes tasks with at most MaxWorkers in flight and waits for all of
// them. It returns the first task error.
func (p *WorkerPool) Run(ctx context.Context, tasks []Task) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxWorkers)

	p.logger.Debug("Worker pool run started",
		zap.String("pool", p.name),
		zap.Int("max_workers", p.maxWorkers),
		zap.Int("tasks", len(tasks)))

	for i, task := range tasks {
		workerID, task := i, task
		atomic.AddUint64(&p.totalTasks, 1)
		g.Go(func() error {
			return p.executeTask(gctx, workerID, task)
		})
	}

	return g.Wait()
}

// executeTask executes a single task
func (p *WorkerPool) executeTask(ctx context.Context, workerID int, task Task) error {
	if err := ctx.Err(); err != nil {
		atomic.AddUint64(&p.skippedTasks, 1)
		p.logger.Debug("Task skipped",
			zap.String("pool", p.name),
			zap.String("task_id", task.ID),
			zap.Error(err))
		return err
	}

	atomic.AddInt32(&p.activeWorkers, 1)
	defer atomic.AddInt32(&p.activeWorkers, -1)

	start := time.Now()

	err := p.safeExecute(ctx, task)

	duration := time.Since(start)

	if err != nil {
		atomic.AddUint64(&p.failedTasks, 1)
		p.logger.Error("Task failed",
			zap.String("pool", p.name),
			zap.Int("worker_id", workerID),
			zap.String("task_id", task.ID),
			zap.Duration("duration", duration),
			zap.Error(err))
		return err
	}

	atomic.AddUint64(&p.completedTasks, 1)
	p.logger.Debug("Task completed",
		zap.String("pool", p.name),
		zap.Int("worker_id", workerID),
		zap.String("task_id", task.ID),
		zap.Duration("duration", duration))
	return nil
}

// safeExecute executes a task with panic recovery
func (p *WorkerPool) safeExecute(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", task.ID, r)
			p.logger.Error("Task panic recovered",
				zap.String("pool", p.name),
				zap.String("task_id", task.ID),
				zap.Any("panic", r))
		}
	}()

	return task.Fn(ctx)
}

// Stats returns current worker pool statistics
func (p *WorkerPool) Stats() Stats {
	return Stats{
		Name:           p.name,
		MaxWorkers:     p.maxWorkers,
		ActiveWorkers:  int(atomic.LoadInt32(&p.activeWorkers)),
		TotalTasks:     atomic.LoadUint64(&p.totalTasks),
		CompletedTasks: atomic.LoadUint64(&p.completedTasks),
		FailedTasks:    atomic.LoadUint64(&p.failedTasks),
		SkippedTasks:   atomic.LoadUint64(&p.skippedTasks),
	}
}

// Stats represents worker pool statistics
type Stats struct {
	Name           string
	MaxWorkers     int
	ActiveWorkers  int
	TotalTasks     uint64
	CompletedTasks uint64
	FailedTasks    uint64
	SkippedTasks   uint64
}

// WorkerUtilization returns the worker utilization as a percentage
func (s Stats) WorkerUtilization() float64 {
	if s.MaxWorkers == 0 {
		return 0
	}
	return (float64(s.ActiveWorkers) / float64(s.MaxWorkers)) * 100.0
}

// SuccessRate returns the task success rate as a percentage
func (s Stats) SuccessRate() float64 {
	if s.TotalTasks == 0 {
		return 100.0
	}
	return (float64(s.CompletedTasks) / float64(s.TotalTasks)) * 100.0
}
