// Package pool keeps a bounded set of reusable objects, such as the buffers
// pages are rendered into.
package pool

// Resettable is implemented by objects that can be cleared for reuse.
type Resettable interface {
	Reset()
}

// Pool holds up to capacity idle objects of type T.
type Pool[T Resettable] struct {
	items chan T
	newFn func() T
}

// New creates a Pool that builds fresh objects with newFn when empty.
func New[T Resettable](capacity int, newFn func() T) *Pool[T] {
	return &Pool[T]{
		items: make(chan T, capacity),
		newFn: newFn,
	}
}

// Get returns an idle object or a new one.
func (p *Pool[T]) Get() T {
	select {
	case item := <-p.items:
		return item
	default:
		return p.newFn()
	}
}

// Put resets item and keeps it for reuse. It is dropped when the pool is full.
func (p *Pool[T]) Put(item T) {
	item.Reset()

	select {
	case p.items <- item:
	default:
	}
}

// Idle returns the number of objects waiting for reuse.
func (p *Pool[T]) Idle() int {
	return len(p.items)
}
