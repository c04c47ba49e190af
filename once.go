package spinsync

// OnceCell holds a value that is computed at most once and shared by every
// caller afterwards. The zero value is an empty cell.
//
// The initializer is never run twice with one result thrown away: the first
// caller to claim the cell runs it, and the others spin until the value is
// published.
//
// A OnceCell must not be copied after first use.
type OnceCell[T any] struct {
	slot slot[T]
}

// GetOrInit returns the value of c, running f to produce it if c is empty.
//
// If f panics, c is left empty, so a later call can initialize it, and the
// panic propagates to this caller. Other goroutines waiting for c keep
// waiting and one of them claims it next.
//
// f must not call back into c.
func (c *OnceCell[T]) GetOrInit(f func() T) T {
	v, _ := c.GetOrTryInit(func() (T, error) {
		return f(), nil
	})
	return v
}

// GetOrTryInit is GetOrInit for initializers that can fail. An error leaves
// c empty and is returned to this caller only.
func (c *OnceCell[T]) GetOrTryInit(f func() (T, error)) (T, error) {
	// fast path
	if c.slot.ready() {
		return c.slot.load(), nil
	}
	var b backoff
	for {
		switch c.slot.state.Load() {
		case slotReady:
			return c.slot.load(), nil
		case slotEmpty:
			if c.slot.claim() {
				return c.initialize(f)
			}
			// lost the claim, retry
		default:
			// someone else is initializing
			b.wait()
		}
	}
}

func (c *OnceCell[T]) initialize(f func() (T, error)) (v T, err error) {
	published := false
	defer func() {
		if !published {
			c.slot.abandon()
		}
	}()
	v, err = f()
	if err != nil {
		return v, err
	}
	c.slot.publish(v)
	published = true
	return v, nil
}

// Get returns the value and true if c is initialized.
func (c *OnceCell[T]) Get() (T, bool) {
	if !c.slot.ready() {
		var zero T
		return zero, false
	}
	return c.slot.load(), true
}

// IsInitialized reports whether the value has been published.
func (c *OnceCell[T]) IsInitialized() bool {
	return c.slot.ready()
}

// Set initializes c with v and reports whether it did. It returns false
// when c already holds a value; if another goroutine is initializing c, Set
// waits for it first.
func (c *OnceCell[T]) Set(v T) bool {
	stored := false
	c.GetOrInit(func() T {
		stored = true
		return v
	})
	return stored
}
