package spinsync

import (
	"sync"
	"sync/atomic"
)

var _ sync.Locker = (*SpinLock)(nil)

// SpinLock is a mutual exclusion lock that busy-waits instead of parking the
// goroutine. The zero value is an unlocked lock.
//
// It is meant for critical sections of a few instructions. There is no
// fairness and no bound on the wait. It is not re-entrant: calling Lock
// while already holding the lock spins forever.
//
// A SpinLock must not be copied after first use. A locked SpinLock is not
// associated with a particular goroutine.
type SpinLock struct {
	locked atomic.Bool
}

// Lock acquires the lock, spinning until it is available.
func (l *SpinLock) Lock() {
	var b backoff
	for !l.locked.CompareAndSwap(false, true) {
		// spin on loads until the lock looks free
		for l.locked.Load() {
			b.wait()
		}
	}
}

// TryLock acquires the lock if it is free and reports whether it did.
func (l *SpinLock) TryLock() bool {
	return l.locked.CompareAndSwap(false, true)
}

// Unlock releases the lock. Unlocking a lock that is not held panics with
// a *ViolationError wrapping ErrNotLocked.
func (l *SpinLock) Unlock() {
	if !l.locked.CompareAndSwap(true, false) {
		violation("spinlock", "unlock", ErrNotLocked)
	}
}
