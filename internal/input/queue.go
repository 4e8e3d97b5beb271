// Package input moves console lines from a blocking reader goroutine to the
// battle engine without ever blocking the engine.
package input

import "sync"

// Queue is an unbounded single-producer, single-consumer line queue.
// Push and Close are called by the producer; Drain and Closed by the consumer.
type Queue struct {
	mu     sync.Mutex
	lines  []string
	closed bool
}

// NewQueue returns an empty open Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends line. Lines pushed after Close are dropped.
func (q *Queue) Push(line string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.lines = append(q.lines, line)
}

// Close marks the producer as finished. Safe to call multiple times.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}

// Drain removes and returns every queued line in arrival order without blocking.
//
// Postcondition: returns nil when the queue is empty.
func (q *Queue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.lines) == 0 {
		return nil
	}
	out := q.lines
	q.lines = nil
	return out
}

// Closed reports whether the producer has finished and every line has been drained.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.lines) == 0
}
