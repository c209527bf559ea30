package service

// historyCapacity bounds both the history and the error log.
const historyCapacity = 10

// ring is a bounded buffer that keeps the newest entries first and silently
// drops the oldest on overflow.
type ring[T any] struct {
	capacity int
	items    []T
}

func newRing[T any](capacity int) *ring[T] {
	return &ring[T]{capacity: capacity, items: make([]T, 0, capacity)}
}

func (r *ring[T]) push(v T) {
	if len(r.items) < r.capacity {
		r.items = append(r.items, v)
	}
	copy(r.items[1:], r.items[:len(r.items)-1])
	r.items[0] = v
}

// load replaces the content with items given most-recent-first.
func (r *ring[T]) load(items []T) {
	if len(items) > r.capacity {
		items = items[:r.capacity]
	}
	r.items = append(r.items[:0], items...)
}

// snapshot returns a copy, most recent first.
func (r *ring[T]) snapshot() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

func (r *ring[T]) clear() {
	clear(r.items)
	r.items = r.items[:0]
}

func (r *ring[T]) len() int {
	return len(r.items)
}
