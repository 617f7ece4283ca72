package parallel

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Dispatcher runs a batch of independent, possibly-blocking calls (backend
// RPCs, in kprove's case) bounded to a fixed number in flight, streaming
// each result back as it completes rather than in submission order — the
// completion-order commit discipline the prover's CFG owner depends on.
//
// It is built on a WorkerPool sized to the same bound for execution and
// statistics, with a semaphore.Weighted in front of Submit as the actual
// admission control (the pool's fixed worker count alone would only cap
// throughput, not in-flight calls queued ahead of a slow one; a slot is held
// until its call finishes), and an errgroup.Group whose context carries
// ctx's cancellation to every call. Per-item errors are not propagated
// through the group; each one travels in its own Result.
type Dispatcher[In, Out any] struct {
	pool   *WorkerPool
	sem    *semaphore.Weighted
	nextID atomic.Uint64
}

// NewDispatcher returns a Dispatcher backed by a worker pool sized to
// maxInFlight, bounding concurrent RPCs to the same figure.
func NewDispatcher[In, Out any](maxInFlight int) *Dispatcher[In, Out] {
	if maxInFlight <= 0 {
		maxInFlight = 1
	}
	return &Dispatcher[In, Out]{
		pool: NewWorkerPool(maxInFlight),
		sem:  semaphore.NewWeighted(int64(maxInFlight)),
	}
}

// Result pairs a dispatched item with its outcome, so a caller that needs to
// know which input produced which output (or error) doesn't have to thread
// an index through work itself.
type Result[In, Out any] struct {
	Item In
	Out  Out
	Err  error
}

// Run calls work(item) for every item in items, at most maxInFlight at a
// time, and returns a channel carrying one Result per item as it completes.
// The channel is closed once every item has been processed or ctx is
// cancelled. Run itself never returns an error; per-item failures surface
// as Result.Err so the caller (the prover's commit loop) can decide whether
// one failed step should fail the whole batch.
func (d *Dispatcher[In, Out]) Run(ctx context.Context, items []In, work func(context.Context, In) (Out, error)) <-chan Result[In, Out] {
	out := make(chan Result[In, Out], len(items))

	go func() {
		defer close(out)
		g, gctx := errgroup.WithContext(ctx)
		for _, item := range items {
			item := item
			if err := d.sem.Acquire(gctx, 1); err != nil {
				out <- Result[In, Out]{Item: item, Err: fmt.Errorf("parallel: acquire slot: %w", err)}
				continue
			}
			g.Go(func() error {
				defer d.sem.Release(1)
				taskID := strconv.FormatUint(d.nextID.Add(1), 10)
				dd := d.pool.GetDeadlockDetector()
				finished := make(chan struct{})
				submitErr := d.pool.Submit(gctx, func() {
					defer close(finished)
					dd.RegisterTask(taskID, "dispatched backend call")
					defer dd.UnregisterTask(taskID)
					res, err := work(gctx, item)
					out <- Result[In, Out]{Item: item, Out: res, Err: err}
				})
				if submitErr != nil {
					out <- Result[In, Out]{Item: item, Err: fmt.Errorf("parallel: submit: %w", submitErr)}
					return nil
				}
				<-finished
				return nil
			})
		}
		_ = g.Wait()
	}()

	return out
}

// Stats returns the dispatcher's underlying execution statistics.
func (d *Dispatcher[In, Out]) Stats() *ExecutionStats { return d.pool.GetStats() }

// Alerts reports calls dispatched through this Dispatcher that have run
// longer than the pool's stall timeout without completing — a wedged or
// unusually slow backend RPC, not necessarily a true deadlock.
func (d *Dispatcher[In, Out]) Alerts() <-chan DeadlockAlert { return d.pool.GetDeadlockDetector().GetAlerts() }

// Shutdown stops the dispatcher's worker pool, waiting for in-flight work
// to finish.
func (d *Dispatcher[In, Out]) Shutdown() { d.pool.Shutdown() }
