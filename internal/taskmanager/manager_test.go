package taskmanager

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/burstcut/internal/metrics"
)

func newManager(t *testing.T, workers, depth int) (*Manager, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	mgr := New(context.Background(), Options{Workers: workers, QueueDepth: depth}, m)
	t.Cleanup(func() { mgr.Close() })
	return mgr, m
}

func executed(m *metrics.Metrics) float64 {
	return testutil.ToFloat64(m.TasksExecuted.WithLabelValues(metrics.ByWorker)) +
		testutil.ToFloat64(m.TasksExecuted.WithLabelValues(metrics.ByHelper))
}

func TestManager_SharedCounter(t *testing.T) {
	mgr, m := newManager(t, 6, 64)

	var counter atomic.Int64
	for i := 0; i < 256; i++ {
		require.NoError(t, mgr.Submit(func() { counter.Add(1) }))
	}
	require.NoError(t, mgr.Close())

	assert.Equal(t, int64(256), counter.Load())
	assert.Equal(t, 256.0, testutil.ToFloat64(m.TasksSubmitted))
	assert.Equal(t, 256.0, executed(m), "no task lost or run twice")
}

// TestManager_CloseDrains submits far more tasks than the queue holds and
// closes right away; every task must have run when Close returns.
func TestManager_CloseDrains(t *testing.T) {
	mgr, _ := newManager(t, 3, 4)

	var counter atomic.Int64
	for i := 0; i < 1000; i++ {
		require.NoError(t, mgr.Submit(func() { counter.Add(1) }))
	}
	require.NoError(t, mgr.Close())
	assert.Equal(t, int64(1000), counter.Load())
	assert.Equal(t, 0, mgr.Queued())
}

// TestManager_NestedSubmitDoesNotDeadlock has every task fan out into more
// tasks through a queue of depth one, so workers constantly find it full
// while submitting.
func TestManager_NestedSubmitDoesNotDeadlock(t *testing.T) {
	mgr, m := newManager(t, 2, 1)

	var counter atomic.Int64
	var spawn func(depth int)
	spawn = func(depth int) {
		counter.Add(1)
		if depth == 0 {
			return
		}
		for i := 0; i < 2; i++ {
			assert.NoError(t, mgr.Submit(func() { spawn(depth - 1) }))
		}
	}
	require.NoError(t, mgr.Submit(func() { spawn(8) }))
	mgr.Wait()

	assert.Equal(t, int64(511), counter.Load())
	assert.Equal(t, 511.0, executed(m))
	require.NoError(t, mgr.Close())
}

func TestManager_SubmitterHelpsWhenFull(t *testing.T) {
	mgr, m := newManager(t, 1, 1)

	started := make(chan struct{})
	release := make(chan struct{})
	var ran atomic.Int64

	require.NoError(t, mgr.Submit(func() {
		close(started)
		<-release
		ran.Add(1)
	}))
	<-started

	require.NoError(t, mgr.Submit(func() { ran.Add(1) })) // fills the queue
	require.NoError(t, mgr.Submit(func() { ran.Add(1) })) // must help

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TasksExecuted.WithLabelValues(metrics.ByHelper)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueueFull))
	assert.Equal(t, int64(1), ran.Load())

	close(release)
	require.NoError(t, mgr.Close())
	assert.Equal(t, int64(3), ran.Load())
}

func TestManager_WaitThenReuse(t *testing.T) {
	mgr, _ := newManager(t, 4, 8)

	var counter atomic.Int64
	for i := 0; i < 50; i++ {
		require.NoError(t, mgr.Submit(func() { counter.Add(1) }))
	}
	mgr.Wait()
	assert.Equal(t, int64(50), counter.Load())

	for i := 0; i < 50; i++ {
		require.NoError(t, mgr.Submit(func() { counter.Add(1) }))
	}
	mgr.Wait()
	assert.Equal(t, int64(100), counter.Load())
}

func TestManager_ClosedAndInvalidSubmits(t *testing.T) {
	mgr, _ := newManager(t, 2, 2)

	assert.ErrorIs(t, mgr.Submit(nil), ErrNilTask)
	require.NoError(t, mgr.Close())
	require.NoError(t, mgr.Close(), "Close is idempotent")
	assert.ErrorIs(t, mgr.Submit(func() {}), ErrClosed)
	assert.False(t, mgr.MakeProgress())
}

func TestManager_Defaults(t *testing.T) {
	mgr := New(context.Background(), Options{}, nil)
	defer mgr.Close()
	assert.Equal(t, DefaultWorkers, mgr.Workers())
	assert.Equal(t, DefaultQueueDepth, mgr.queue.Cap())
}
