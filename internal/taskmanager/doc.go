// Package taskmanager runs deferred work on a fixed pool of worker
// goroutines fed by a bounded queue.
//
// # Back-pressure without deadlock
//
// Submit never parks. When the queue is full the submitter takes one pending
// task off the queue and runs it itself, then tries again. Workers may
// therefore submit from inside a task: even if every worker is submitting at
// once, each of them keeps draining the queue and the pool makes progress.
//
// # Shutdown
//
// Close drains to completion. It queues one barrier task per worker behind
// everything already submitted; a worker that picks one up waits until every
// worker and the closer have arrived. Only then is the stop signal raised.
// Workers then run whatever is still queued without blocking and exit. No
// task submitted before Close is dropped.
package taskmanager
