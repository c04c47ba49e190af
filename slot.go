package spinsync

import "sync/atomic"

// slot is a single value cell whose state word controls visibility and
// ownership of val. Every transition is an atomic store or CAS, so a
// goroutine that observes slotReady also observes the write to val that
// preceded the publish.
//
// Transitions:
//
//	empty -> writing -> ready -> consumed
//	any state except writing -> closed
//
// Only the goroutine that moved the slot to writing may touch val until it
// publishes ready. Only the goroutine that moves it out of ready may read
// val destructively.
type slot[T any] struct {
	state atomic.Uint32
	val   T
}

const (
	slotEmpty uint32 = iota
	slotWriting
	slotReady
	slotConsumed
	slotClosed
)

// claim reserves the slot for the single writer.
func (s *slot[T]) claim() bool {
	return s.state.CompareAndSwap(slotEmpty, slotWriting)
}

// publish stores v and makes it visible. The caller must hold the claim.
func (s *slot[T]) publish(v T) {
	s.val = v
	s.state.Store(slotReady)
}

// abandon gives a claim back without publishing anything.
func (s *slot[T]) abandon() {
	var zero T
	s.val = zero
	s.state.Store(slotEmpty)
}

// ready reports whether a value is published.
func (s *slot[T]) ready() bool {
	return s.state.Load() == slotReady
}

// load returns the published value without consuming it.
// The caller must have observed slotReady.
func (s *slot[T]) load() T {
	return s.val
}

// take moves the slot from ready to next and hands the value over.
// The slot drops its reference so the value can be collected.
func (s *slot[T]) take(next uint32) (T, bool) {
	var zero T
	if !s.state.CompareAndSwap(slotReady, next) {
		return zero, false
	}
	v := s.val
	s.val = zero
	return v, true
}
