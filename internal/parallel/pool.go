// Package parallel dispatches backend proof-step calls concurrently on
// behalf of the prover's steps()/commit() decomposition. Concurrency is
// bounded up front by Dispatcher's semaphore, so the pool underneath it
// runs a fixed number of workers rather than growing and shrinking with
// load; it still tracks execution statistics and watches for calls that
// stop making progress.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ErrPoolShutdown is returned by Submit once the pool has stopped accepting
// work.
var ErrPoolShutdown = errors.New("parallel: worker pool shut down")

// WorkerPool runs queued funcs on a fixed set of goroutines. It is sized
// once at construction; callers that need to bound concurrency dynamically
// do so in front of Submit (Dispatcher uses a semaphore.Weighted for this),
// not by asking the pool to grow or shrink.
type WorkerPool struct {
	tasks chan func()
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once

	stats    *ExecutionStats
	detector *DeadlockDetector
}

// NewWorkerPool starts a WorkerPool with n workers (at least 1) and begins
// running them immediately.
func NewWorkerPool(n int) *WorkerPool {
	if n < 1 {
		n = 1
	}
	wp := &WorkerPool{
		tasks:    make(chan func(), n*4),
		done:     make(chan struct{}),
		stats:    newExecutionStats(),
		detector: NewDeadlockDetector(30*time.Second, 5*time.Second),
	}
	wp.wg.Add(n)
	for i := 0; i < n; i++ {
		go wp.loop()
	}
	return wp
}

func (wp *WorkerPool) loop() {
	defer wp.wg.Done()
	for {
		select {
		case task, ok := <-wp.tasks:
			if !ok {
				return
			}
			wp.run(task)
		case <-wp.done:
			return
		}
	}
}

// run executes one task, converting a panic into a recorded failure rather
// than taking the worker goroutine down with it.
func (wp *WorkerPool) run(task func()) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			wp.stats.recordFailed(fmt.Errorf("parallel: task panicked: %v", r))
			return
		}
		wp.stats.recordCompleted(time.Since(start))
	}()
	task()
}

// Submit queues task for execution. It blocks until a slot opens in the
// queue, ctx is done, or the pool has been shut down.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	wp.stats.recordSubmitted()
	select {
	case <-wp.done:
		wp.stats.recordCancelled()
		return ErrPoolShutdown
	default:
	}
	select {
	case wp.tasks <- task:
		wp.stats.recordQueueDepth(len(wp.tasks))
		return nil
	case <-ctx.Done():
		wp.stats.recordCancelled()
		return ctx.Err()
	case <-wp.done:
		wp.stats.recordCancelled()
		return ErrPoolShutdown
	}
}

// Shutdown stops accepting work and blocks until every worker has drained
// its current task.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		close(wp.done)
		wp.wg.Wait()
		wp.stats.finalize()
		wp.detector.Shutdown()
	})
}

// GetStats returns the pool's execution statistics collector.
func (wp *WorkerPool) GetStats() *ExecutionStats { return wp.stats }

// GetDeadlockDetector returns the pool's stall watcher.
func (wp *WorkerPool) GetDeadlockDetector() *DeadlockDetector { return wp.detector }

// ExecutionStats accumulates counters over a WorkerPool's lifetime. All
// mutating methods are safe for concurrent use; Snapshot takes a consistent
// point-in-time copy for reporting.
type ExecutionStats struct {
	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	cancelled atomic.Int64
	errors    atomic.Int64

	mu             sync.Mutex
	startedAt      time.Time
	endedAt        time.Time
	peakQueueDepth int
	queueSampleSum int64
	queueSamples   int64
	taskDurations  time.Duration
	lastError      error
}

func newExecutionStats() *ExecutionStats {
	return &ExecutionStats{startedAt: time.Now()}
}

func (es *ExecutionStats) recordSubmitted() { es.submitted.Add(1) }
func (es *ExecutionStats) recordCancelled() { es.cancelled.Add(1) }

func (es *ExecutionStats) recordCompleted(d time.Duration) {
	es.completed.Add(1)
	es.mu.Lock()
	es.taskDurations += d
	es.mu.Unlock()
}

func (es *ExecutionStats) recordFailed(err error) {
	es.failed.Add(1)
	es.errors.Add(1)
	es.mu.Lock()
	es.lastError = err
	es.mu.Unlock()
}

func (es *ExecutionStats) recordQueueDepth(depth int) {
	es.mu.Lock()
	defer es.mu.Unlock()
	if depth > es.peakQueueDepth {
		es.peakQueueDepth = depth
	}
	es.queueSampleSum += int64(depth)
	es.queueSamples++
}

func (es *ExecutionStats) finalize() {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.endedAt = time.Now()
}

// Snapshot is a consistent, lock-free-to-read copy of a pool's counters.
type Snapshot struct {
	Submitted, Completed, Failed, Cancelled, ErrorCount int64
	PeakQueueDepth                                      int
	AverageQueueDepth                                   float64
	AverageTaskDuration                                 time.Duration
	TasksPerSecond                                      float64
	LastError                                           error
}

// Snapshot takes a point-in-time copy of the pool's counters.
func (es *ExecutionStats) Snapshot() Snapshot {
	es.mu.Lock()
	defer es.mu.Unlock()

	snap := Snapshot{
		Submitted:      es.submitted.Load(),
		Completed:      es.completed.Load(),
		Failed:         es.failed.Load(),
		Cancelled:      es.cancelled.Load(),
		ErrorCount:     es.errors.Load(),
		PeakQueueDepth: es.peakQueueDepth,
		LastError:      es.lastError,
	}
	if es.queueSamples > 0 {
		snap.AverageQueueDepth = float64(es.queueSampleSum) / float64(es.queueSamples)
	}
	if snap.Completed > 0 {
		snap.AverageTaskDuration = es.taskDurations / time.Duration(snap.Completed)
	}
	elapsed := time.Since(es.startedAt)
	if !es.endedAt.IsZero() {
		elapsed = es.endedAt.Sub(es.startedAt)
	}
	if elapsed > 0 {
		snap.TasksPerSecond = float64(snap.Completed) / elapsed.Seconds()
	}
	return snap
}

// String renders a human-readable summary, for logging.
func (es *ExecutionStats) String() string {
	s := es.Snapshot()
	last := "none"
	if s.LastError != nil {
		last = s.LastError.Error()
	}
	return fmt.Sprintf(
		"ExecutionStats{submitted=%d completed=%d failed=%d cancelled=%d queue_peak=%d queue_avg=%.1f throughput=%.1f/s avg_duration=%v errors=%d last_error=%s}",
		s.Submitted, s.Completed, s.Failed, s.Cancelled, s.PeakQueueDepth, s.AverageQueueDepth,
		s.TasksPerSecond, s.AverageTaskDuration, s.ErrorCount, last,
	)
}

// DeadlockAlertType classifies why a DeadlockDetector raised an alert.
type DeadlockAlertType int

const (
	AlertTaskTimeout DeadlockAlertType = iota
	AlertSystemStall
)

// DeadlockAlert reports one stall observation.
type DeadlockAlert struct {
	Type        DeadlockAlertType
	TaskID      string
	Description string
	Timestamp   time.Time
}

type trackedTask struct {
	description string
	started     time.Time
	touched     atomic.Int64 // unix nanos of last UpdateTask call
}

// DeadlockDetector watches a set of named in-flight tasks (dispatched
// backend calls, in kprove's case) and raises an alert when one runs past
// its timeout without being touched, or when the whole set goes quiet at
// once. It does not attempt general circular-wait detection: a dispatched
// RPC has no lock graph to analyze, only a clock.
type DeadlockDetector struct {
	timeout time.Duration
	sweep   time.Duration

	tasks sync.Map // taskID -> *trackedTask

	activity atomic.Int64 // unix nanos of the last Register/Update/Unregister

	alerts     chan DeadlockAlert
	done       chan struct{}
	shutdownMu sync.Once
}

// NewDeadlockDetector starts a DeadlockDetector that flags a task as
// timed out after timeout has passed since its last update, checking every
// sweep interval.
func NewDeadlockDetector(timeout, sweep time.Duration) *DeadlockDetector {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if sweep <= 0 {
		sweep = 5 * time.Second
	}
	dd := &DeadlockDetector{
		timeout: timeout,
		sweep:   sweep,
		alerts:  make(chan DeadlockAlert, 16),
		done:    make(chan struct{}),
	}
	dd.activity.Store(time.Now().UnixNano())
	go dd.run()
	return dd
}

// RegisterTask begins tracking taskID.
func (dd *DeadlockDetector) RegisterTask(taskID, description string) {
	t := &trackedTask{description: description, started: time.Now()}
	t.touched.Store(t.started.UnixNano())
	dd.tasks.Store(taskID, t)
	dd.activity.Store(time.Now().UnixNano())
}

// UpdateTask records that taskID made progress, resetting its timeout.
func (dd *DeadlockDetector) UpdateTask(taskID string) {
	if v, ok := dd.tasks.Load(taskID); ok {
		v.(*trackedTask).touched.Store(time.Now().UnixNano())
	}
	dd.activity.Store(time.Now().UnixNano())
}

// UnregisterTask stops tracking taskID.
func (dd *DeadlockDetector) UnregisterTask(taskID string) {
	dd.tasks.Delete(taskID)
	dd.activity.Store(time.Now().UnixNano())
}

// GetAlerts returns the channel alerts are published on.
func (dd *DeadlockDetector) GetAlerts() <-chan DeadlockAlert { return dd.alerts }

// GetActiveTaskCount returns how many tasks are currently tracked.
func (dd *DeadlockDetector) GetActiveTaskCount() int {
	n := 0
	dd.tasks.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Shutdown stops the sweep goroutine. Safe to call more than once.
func (dd *DeadlockDetector) Shutdown() {
	dd.shutdownMu.Do(func() { close(dd.done) })
}

func (dd *DeadlockDetector) run() {
	ticker := time.NewTicker(dd.sweep)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			dd.sweepOnce()
		case <-dd.done:
			return
		}
	}
}

func (dd *DeadlockDetector) sweepOnce() {
	now := time.Now()
	active := 0
	dd.tasks.Range(func(key, value any) bool {
		active++
		taskID := key.(string)
		t := value.(*trackedTask)
		lastTouch := time.Unix(0, t.touched.Load())
		if now.Sub(lastTouch) > dd.timeout {
			dd.publish(DeadlockAlert{
				Type:        AlertTaskTimeout,
				TaskID:      taskID,
				Description: fmt.Sprintf("task %q timed out after %v", t.description, now.Sub(t.started)),
				Timestamp:   now,
			})
		}
		return true
	})

	lastActivity := time.Unix(0, dd.activity.Load())
	if active > 0 && now.Sub(lastActivity) > dd.timeout*2 {
		dd.publish(DeadlockAlert{
			Type:        AlertSystemStall,
			Description: fmt.Sprintf("no task activity for %v with %d tasks still tracked", now.Sub(lastActivity), active),
			Timestamp:   now,
		})
	}
}

func (dd *DeadlockDetector) publish(alert DeadlockAlert) {
	select {
	case dd.alerts <- alert:
	default:
	}
}
