package spinsync

// Locked owns a value of type T and only hands it out while its SpinLock is
// held. The zero value holds the zero T and is ready for use.
type Locked[T any] struct {
	mu  SpinLock
	val T
}

// NewLocked returns a Locked guarding v.
func NewLocked[T any](v T) *Locked[T] {
	return &Locked[T]{val: v}
}

// Do runs fn with exclusive access to the value. The lock is released when
// fn returns or panics. fn must not keep the pointer past its return and
// must not call back into l.
func (l *Locked[T]) Do(fn func(v *T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(&l.val)
}

// WithLock is Do for operations that produce a result.
func WithLock[T, R any](l *Locked[T], fn func(v *T) R) R {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(&l.val)
}

// Load returns a copy of the value.
func (l *Locked[T]) Load() T {
	l.mu.Lock()
	v := l.val
	l.mu.Unlock()
	return v
}

// Store replaces the value.
func (l *Locked[T]) Store(v T) {
	l.mu.Lock()
	l.val = v
	l.mu.Unlock()
}

// Swap replaces the value and returns the previous one.
func (l *Locked[T]) Swap(v T) (old T) {
	l.mu.Lock()
	old, l.val = l.val, v
	l.mu.Unlock()
	return old
}
