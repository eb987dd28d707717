package source

import "sync"

// Sink receives results as they are produced.
type Sink[T any] interface {
	Put(v T)
}

// Queue is an append-only, concurrency-safe Sink.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// Put appends v.
func (q *Queue[T]) Put(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
}

// Items returns a snapshot of everything put so far, in order.
func (q *Queue[T]) Items() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of items put so far.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
