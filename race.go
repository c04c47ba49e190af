package spinsync

import "sync/atomic"

// RaceCell lazily publishes a pointer without ever blocking.
//
// Concurrent first callers may all run their initializer; exactly one result
// is published and the others are dropped. Use it only for initializers that
// are cheap and free of side effects. For everything else use OnceCell.
//
// The zero value is an empty cell.
type RaceCell[T any] struct {
	p atomic.Pointer[T]
}

// GetOrInit returns the published pointer, calling f to create it if there
// is none yet. f must not return nil.
func (c *RaceCell[T]) GetOrInit(f func() *T) *T {
	if p := c.p.Load(); p != nil {
		return p
	}
	p := f()
	if p == nil {
		violation("racecell", "init", ErrNilValue)
	}
	if c.p.CompareAndSwap(nil, p) {
		return p
	}
	// lost the race, drop ours
	return c.p.Load()
}

// Get returns the published pointer or nil.
func (c *RaceCell[T]) Get() *T {
	return c.p.Load()
}
