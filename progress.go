package spinsync

import (
	"sync/atomic"
	"time"
)

// Progress counts completed work items and their durations. Any number of
// workers may call Observe while others read Stats; nothing is locked.
type Progress struct {
	// Optional padding to avoid false sharing between frequently accessed fields
	_       [64]byte
	claimed atomic.Uint64
	_       [64]byte
	done    atomic.Uint64
	_       [64]byte
	total   atomic.Int64 // nanoseconds
	_      [64]byte
	peak    atomic.Int64 // nanoseconds
	_       [64]byte
	target  uint64
	finish  chan struct{}
}

// ProgressStats is a point-in-time snapshot of a Progress.
type ProgressStats struct {
	Done   uint64
	Target uint64
	Total  time.Duration
	Peak   time.Duration
}

// Average returns the mean duration of the observed items.
func (s ProgressStats) Average() time.Duration {
	if s.Done == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Done)
}

// NewProgress creates a tracker that finishes after target items.
func NewProgress(target uint64) *Progress {
	if target == 0 {
		panic("target must be > 0")
	}
	return &Progress{
		target: target,
		finish: make(chan struct{}),
	}
}

// Observe records one finished item that took d. Observing more items than
// the target panics and leaves the statistics untouched.
func (p *Progress) Observe(d time.Duration) {
	if p.claimed.Add(1) > p.target {
		violation("progress", "observe", ErrOverflow)
	}
	ns := int64(d)
	p.total.Add(ns)
	for {
		peak := p.peak.Load()
		if ns <= peak || p.peak.CompareAndSwap(peak, ns) {
			break
		}
	}
	// done is bumped last so a reader that sees the target sees every duration
	if p.done.Add(1) == p.target {
		close(p.finish)
	}
}

// Done returns a channel that is closed once target items were observed.
func (p *Progress) Done() <-chan struct{} {
	return p.finish
}

// Finished reports whether the target was reached.
func (p *Progress) Finished() bool {
	return p.done.Load() >= p.target
}

// Stats retrieves the current statistics of the Progress
func (p *Progress) Stats() ProgressStats {
	return ProgressStats{
		Done:   p.done.Load(),
		Target: p.target,
		Total:  time.Duration(p.total.Load()),
		Peak:   time.Duration(p.peak.Load()),
	}
}
