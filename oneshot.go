package spinsync

import (
	"io"
	"runtime"
	"sync/atomic"

	"github.com/aradilov/spinsync/logger"
)

// ChannelOption configures a Channel at construction.
type ChannelOption[T any] func(o *oneshot[T])

// WithRelease sets the function that takes ownership of a value which was
// sent but never received, when the channel is closed or collected. It is
// called at most once. Without it, such a value is closed if it implements
// io.Closer and dropped otherwise.
func WithRelease[T any](fn func(v T)) ChannelOption[T] {
	return func(o *oneshot[T]) {
		o.release = fn
	}
}

// oneshot is the state shared by a Channel and its handles. It never points
// back at the Channel, so the Channel can be collected while the cleanup
// still holds on to this.
type oneshot[T any] struct {
	slot    slot[T]
	wake    chan struct{} // one token: posted after publish and after close
	release func(v T)
}

// Channel hands exactly one value from one sender to one receiver.
//
// The value is published with a single atomic transition, so no lock is
// taken on either side. Misuse (a second Send, a Receive with nothing
// ready, a second Receive) panics with a *ViolationError.
//
// A Channel must be created with NewChannel.
type Channel[T any] struct {
	core    *oneshot[T]
	split   atomic.Bool
	cleanup runtime.Cleanup
}

// NewChannel creates an empty channel.
func NewChannel[T any](opts ...ChannelOption[T]) *Channel[T] {
	o := &oneshot[T]{wake: make(chan struct{}, 1)}
	for _, opt := range opts {
		opt(o)
	}
	c := &Channel[T]{core: o}
	c.cleanup = runtime.AddCleanup(c, releaseUnreachable[T], o)
	return c
}

// releaseUnreachable runs on the runtime's cleanup goroutine, where a panic
// would take the process down.
func releaseUnreachable[T any](o *oneshot[T]) {
	defer func() {
		if r := recover(); r != nil {
			logger.DefaultLogger.Error("oneshot: release of unreceived value panicked: %v", r)
		}
	}()
	released, err := o.close()
	if err != nil {
		logger.DefaultLogger.Warn("oneshot: release of unreceived value failed: %v", err)
		return
	}
	if released {
		logger.DefaultLogger.Debug("oneshot: released unreceived value of a collected channel")
	}
}

// Send publishes v. It panics if a value was already sent or the channel
// is closed.
func (c *Channel[T]) Send(v T) {
	c.core.send(v)
}

// IsReady reports whether a value is waiting. It never consumes it.
func (c *Channel[T]) IsReady() bool {
	return c.core.slot.ready()
}

// TryReceive takes the value if one is ready. Otherwise it returns
// ErrNotReady, ErrConsumed or ErrClosed and changes nothing.
func (c *Channel[T]) TryReceive() (T, error) {
	return c.core.tryReceive()
}

// Receive takes the value. It does not wait: calling it before a value is
// ready, or after the value was taken, panics.
func (c *Channel[T]) Receive() T {
	v, err := c.core.tryReceive()
	if err != nil {
		violation("oneshot", "receive", err)
	}
	return v
}

// Close ends the channel. A value that was sent but not received is
// released exactly once, and a receiver blocked in Receiver.Receive is woken
// and panics with ErrClosed. Close is idempotent; it returns the error of
// closing the released value, if any.
func (c *Channel[T]) Close() error {
	c.cleanup.Stop()
	_, err := c.core.close()
	if err != nil {
		logger.DefaultLogger.Warn("oneshot: release of unreceived value failed: %v", err)
	}
	return err
}

// Split returns the sending and the receiving handle of c. It can be called
// once; the Receiver is the only party allowed to block on the value.
func (c *Channel[T]) Split() (*Sender[T], *Receiver[T]) {
	if !c.split.CompareAndSwap(false, true) {
		violation("oneshot", "split", ErrAlreadySplit)
	}
	return &Sender[T]{c: c}, &Receiver[T]{c: c}
}

// Sender is the sending half of a split Channel.
type Sender[T any] struct {
	c *Channel[T]
}

// Send publishes v and wakes the receiver.
func (s *Sender[T]) Send(v T) {
	s.c.core.send(v)
}

// Receiver is the receiving half of a split Channel.
type Receiver[T any] struct {
	c *Channel[T]
}

// IsReady reports whether a value is waiting without consuming it.
func (r *Receiver[T]) IsReady() bool {
	return r.c.core.slot.ready()
}

// TryReceive takes the value if one is ready and never blocks. See
// Channel.TryReceive for the errors.
func (r *Receiver[T]) TryReceive() (T, error) {
	return r.c.core.tryReceive()
}

// Receive blocks until the value is sent and takes it. Calling it again
// after it returned, or while the channel is closed, panics.
func (r *Receiver[T]) Receive() T {
	o := r.c.core
	for {
		v, err := o.tryReceive()
		switch err {
		case nil:
			return v
		case ErrNotReady:
			// the token is posted after publish, so it can't be missed
			<-o.wake
		default:
			violation("oneshot", "receive", err)
		}
	}
}

func (o *oneshot[T]) send(v T) {
	if !o.slot.claim() {
		if o.slot.state.Load() == slotClosed {
			violation("oneshot", "send", ErrClosed)
		}
		violation("oneshot", "send", ErrDoubleSend)
	}
	o.slot.publish(v)
	o.notify()
}

func (o *oneshot[T]) notify() {
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

func (o *oneshot[T]) tryReceive() (T, error) {
	if v, ok := o.slot.take(slotConsumed); ok {
		return v, nil
	}
	var zero T
	switch o.slot.state.Load() {
	case slotConsumed:
		return zero, ErrConsumed
	case slotClosed:
		return zero, ErrClosed
	default:
		// empty, being written, or published right after the failed take
		return zero, ErrNotReady
	}
}

// close moves the slot to closed from wherever it is and reports whether
// an unreceived value was released.
func (o *oneshot[T]) close() (bool, error) {
	var b backoff
	for {
		switch state := o.slot.state.Load(); state {
		case slotClosed:
			return false, nil
		case slotWriting:
			// the sender owns the slot until it publishes
			b.wait()
		case slotReady:
			if v, ok := o.slot.take(slotClosed); ok {
				o.notify()
				return true, o.discard(v)
			}
		default:
			if o.slot.state.CompareAndSwap(state, slotClosed) {
				o.notify()
				return false, nil
			}
		}
	}
}

func (o *oneshot[T]) discard(v T) error {
	if o.release != nil {
		o.release(v)
		return nil
	}
	if closer, ok := any(v).(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
