package spinsync

import (
	"runtime"

	"github.com/valyala/fastrand"
)

const (
	goschedEvery = 64 // reduce runtime.Gosched() frequency in hot loops
	maxYields    = 16
)

// backoff is the spin-wait used by every busy loop in the package.
//
// Most iterations only burn a few cycles. Every goschedEvery iterations the
// goroutine yields a random number of times in [1, yields], and yields
// doubles up to maxYields, so spinners that collided once do not keep
// colliding in lockstep.
type backoff struct {
	spins  uint32
	yields uint32
}

func (b *backoff) wait() {
	b.spins++
	if b.spins%goschedEvery != 0 {
		return
	}
	if b.yields == 0 {
		b.yields = 1
	} else if b.yields < maxYields {
		b.yields <<= 1
	}
	for n := fastrand.Uint32n(b.yields) + 1; n > 0; n-- {
		runtime.Gosched()
	}
}
