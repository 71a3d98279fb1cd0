// Package workerpool provides bounded concurrent dispatch for the
// pipeline's Predicting stage; the Classifying stage calls its
// classifier directly, not through a Pool (spec §5: "CPU-bound ML inference
// runs on a dedicated worker pool (>=1 worker), called synchronously
// from the pipeline thread for each stage"). Grounded on
// theRebelliousNerd-codenerd's perception/semantic_classifier.go
// errgroup-based parallel-search fan-out, bounded via
// golang.org/x/sync/errgroup's SetLimit rather than a hand-rolled
// channel semaphore.
package workerpool

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Pool dispatches a fixed number of concurrent tasks, bounded by
// workers.
type Pool struct {
	workers int
	logger  zerolog.Logger
}

// New constructs a Pool with the given worker count. A non-positive
// count is treated as 1 (at least one worker, per spec §5). Dispatch
// and completion are logged at debug level through a no-op logger by
// default; attach a real one with WithLogger.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers, logger: zerolog.Nop()}
}

// WithLogger attaches l for dispatch/completion logging and returns p
// for chaining.
func (p *Pool) WithLogger(l zerolog.Logger) *Pool {
	p.logger = l
	return p
}

// Run executes tasks concurrently, bounded by the pool's worker count,
// and returns the first error encountered (if any), after all tasks
// have returned. Every task is launched even after ctx is cancelled or
// a task fails; the context each task receives is cancelled then, and a
// task must observe it itself to stop early.
func (p *Pool) Run(ctx context.Context, tasks []func(context.Context) error) error {
	start := time.Now()
	p.logger.Debug().Int("workers", p.workers).Int("tasks", len(tasks)).Msg("workerpool: dispatching")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			return task(gctx)
		})
	}

	err := g.Wait()
	ev := p.logger.Debug()
	if err != nil {
		ev = p.logger.Error().Err(err)
	}
	ev.Dur("elapsed", time.Since(start)).Msg("workerpool: dispatch complete")
	return err
}

// Map runs fn over every item in items concurrently, bounded by the
// pool's worker count, collecting results in input order. If any call
// fails, Map returns a nil slice and the first error.
func Map[T, R any](ctx context.Context, p *Pool, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	start := time.Now()
	p.logger.Debug().Int("workers", p.workers).Int("items", len(items)).Msg("workerpool: dispatching")

	results := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	err := g.Wait()
	ev := p.logger.Debug()
	if err != nil {
		ev = p.logger.Error().Err(err)
	}
	ev.Dur("elapsed", time.Since(start)).Msg("workerpool: dispatch complete")
	if err != nil {
		return nil, err
	}
	return results, nil
}
