package taskmanager

import "context"

// Queue is a bounded FIFO. Its channel buffer plays the role of both
// counting permits: free slots for producers and ready items for consumers.
type Queue[T any] struct {
	items chan T
}

// NewQueue creates a queue holding at most depth items. A depth below one
// is raised to one.
func NewQueue[T any](depth int) *Queue[T] {
	if depth < 1 {
		depth = 1
	}
	return &Queue[T]{items: make(chan T, depth)}
}

// Enqueue blocks until there is room for v or ctx is done.
func (q *Queue[T]) Enqueue(ctx context.Context, v T) error {
	select {
	case q.items <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryEnqueue adds v if there is room and reports whether it did.
func (q *Queue[T]) TryEnqueue(v T) bool {
	select {
	case q.items <- v:
		return true
	default:
		return false
	}
}

// Dequeue blocks until an item is ready or ctx is done.
func (q *Queue[T]) Dequeue(ctx context.Context) (T, error) {
	select {
	case v := <-q.items:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TryDequeue removes the oldest item if there is one.
func (q *Queue[T]) TryDequeue() (T, bool) {
	select {
	case v := <-q.items:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int { return len(q.items) }

// Cap returns the queue depth.
func (q *Queue[T]) Cap() int { return cap(q.items) }
