package taskmanager

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/vk/burstcut/internal/ctxlog"
	"github.com/vk/burstcut/internal/metrics"
)

const (
	DefaultWorkers    = 6
	DefaultQueueDepth = 64
)

var (
	// ErrClosed is returned by Submit once Close has finished.
	ErrClosed = errors.New("taskmanager: manager is closed")
	// ErrNilTask is returned by Submit for a nil task.
	ErrNilTask = errors.New("taskmanager: nil task")
)

// Task is a unit of deferred work.
type Task func()

// Options size the pool.
type Options struct {
	Workers    int
	QueueDepth int
}

type job struct {
	task    Task
	tracked bool // false for shutdown barrier tasks
}

// Manager is a fixed worker pool with a bounded queue.
type Manager struct {
	queue   *Queue[job]
	workers int

	stopCtx context.Context
	stop    context.CancelFunc

	running   sync.WaitGroup // worker goroutines
	pending   sync.WaitGroup // submitted, not yet finished tasks
	closeOnce sync.Once
	closed    atomic.Bool

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New starts the workers. ctx supplies the logger; cancelling it does not
// stop the pool, Close does. A nil m gets unregistered collectors.
func New(ctx context.Context, opts Options, m *metrics.Metrics) *Manager {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.QueueDepth <= 0 {
		opts.QueueDepth = DefaultQueueDepth
	}
	if m == nil {
		m = metrics.New(nil)
	}
	stopCtx, stop := context.WithCancel(context.Background())
	mgr := &Manager{
		queue:   NewQueue[job](opts.QueueDepth),
		workers: opts.Workers,
		stopCtx: stopCtx,
		stop:    stop,
		logger:  ctxlog.FromContext(ctx).With("component", "taskmanager"),
		metrics: m,
	}

	mgr.running.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go mgr.worker(i)
	}
	mgr.logger.Debug("Task manager started.", "workers", opts.Workers, "queue_depth", opts.QueueDepth)
	return mgr
}

// Workers returns the pool size.
func (m *Manager) Workers() int { return m.workers }

// Queued returns the number of tasks waiting in the queue.
func (m *Manager) Queued() int { return m.queue.Len() }

// Submit queues task. If the queue is full the caller runs pending tasks
// itself until there is room, so Submit is safe to call from inside a task.
func (m *Manager) Submit(task Task) error {
	if task == nil {
		return ErrNilTask
	}
	if m.closed.Load() {
		return ErrClosed
	}
	m.pending.Add(1)
	m.metrics.TasksSubmitted.Inc()

	j := job{task: task, tracked: true}
	full := false
	for !m.queue.TryEnqueue(j) {
		if !full {
			full = true
			m.metrics.QueueFull.Inc()
		}
		if !m.MakeProgress() {
			runtime.Gosched()
		}
	}
	return nil
}

// MakeProgress runs one queued task on the calling goroutine, if any, and
// reports whether it did.
func (m *Manager) MakeProgress() bool {
	j, ok := m.queue.TryDequeue()
	if !ok {
		return false
	}
	m.run(j, metrics.ByHelper)
	return true
}

// Wait blocks until every task submitted so far has finished. It must not be
// called from inside a task.
func (m *Manager) Wait() {
	m.pending.Wait()
}

// Close drains the queue, stops the workers and waits for them. It is safe
// to call more than once. It must not be called from inside a task.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		m.logger.Debug("Task manager shutting down.", "queued", m.queue.Len())

		var barrier sync.WaitGroup
		barrier.Add(m.workers + 1)
		arrive := func() {
			barrier.Done()
			barrier.Wait()
		}
		for i := 0; i < m.workers; i++ {
			// Blocking here is fine: fewer than workers goroutines can be
			// parked on the barrier, so someone is free to dequeue.
			_ = m.queue.Enqueue(context.Background(), job{task: arrive})
		}
		m.stop()
		barrier.Done()
		m.running.Wait()

		m.closed.Store(true)
		for m.MakeProgress() {
		}
		m.pending.Wait()
		m.logger.Debug("Task manager stopped.")
	})
	return nil
}

func (m *Manager) worker(id int) {
	defer m.running.Done()
	logger := m.logger.With("workerID", id)
	logger.Debug("Worker started.")

	for {
		j, err := m.queue.Dequeue(m.stopCtx)
		if err != nil {
			break
		}
		m.run(j, metrics.ByWorker)
	}
	for {
		j, ok := m.queue.TryDequeue()
		if !ok {
			break
		}
		m.run(j, metrics.ByWorker)
	}
	logger.Debug("Worker finished.")
}

func (m *Manager) run(j job, by string) {
	if j.tracked {
		defer m.pending.Done()
		m.metrics.TasksExecuted.WithLabelValues(by).Inc()
	}
	j.task()
}
