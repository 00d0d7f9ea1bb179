package conduct

import (
	"sync"
	"time"
)

// ChangeRecord is the observable side effect of one field mutation: which
// attribute of which field changed, and from what to what. Values are
// rendered as strings; option lists are comma-joined.
type ChangeRecord struct {
	Field string
	Attr  Attribute
	From  string
	To    string
	Time  time.Time
}

// ring is a thread-safe bounded buffer that keeps the most recent entries.
// The Coordinator uses it for change records and the Loader for errors.
type ring[T any] struct {
	mu    sync.RWMutex
	items []T
	size  int
	head  int
	count int
}

// newRing creates a ring with the given capacity. Capacity 0 disables the
// ring; all operations on a nil ring are no-ops.
func newRing[T any](size int) *ring[T] {
	if size <= 0 {
		return nil
	}
	return &ring[T]{
		items: make([]T, size),
		size:  size,
	}
}

func (r *ring[T]) push(item T) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[r.head] = item
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// all returns the retained entries, oldest first.
func (r *ring[T]) all() []T {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}
	out := make([]T, r.count)
	start := (r.head - r.count + r.size) % r.size
	for i := 0; i < r.count; i++ {
		out[i] = r.items[(start+i)%r.size]
	}
	return out
}

func (r *ring[T]) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.head = 0
	r.count = 0
}
