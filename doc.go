// Package spinsync provides small synchronization primitives built on one
// atomic state word gating a value:
//
//   - SpinLock, a busy-waiting mutual exclusion lock;
//   - Locked, a value that is only reachable with its SpinLock held;
//   - Channel, a one-shot hand-off of a single value from one sender to
//     one receiver;
//   - OnceCell, a value initialized exactly once under contention;
//   - RaceCell, a lock-free lazily published pointer;
//   - Progress, a lock-free counter of finished work.
//
// Breaking a call contract, such as sending twice or unlocking a free lock,
// panics with a *ViolationError. None of the primitives support timeouts or
// cancellation.
package spinsync
