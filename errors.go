package spinsync

import (
	"fmt"

	"github.com/aradilov/spinsync/logger"
)

var (
	ErrDoubleSend   = fmt.Errorf("value already sent")
	ErrNotReady     = fmt.Errorf("no value ready")
	ErrConsumed     = fmt.Errorf("value already received")
	ErrClosed       = fmt.Errorf("channel is closed")
	ErrAlreadySplit = fmt.Errorf("channel already split")
	ErrNotLocked    = fmt.Errorf("unlock of unlocked spinlock")
	ErrNilValue     = fmt.Errorf("initializer returned nil")
	ErrOverflow     = fmt.Errorf("observed more items than the target")
)

// ViolationError is the panic value for a broken call contract, like a
// second send or unlocking a free lock. These are programmer errors, so they
// are raised as panics rather than returned.
type ViolationError struct {
	Primitive string
	Op        string
	Err       error
}

func (e *ViolationError) Error() string {
	return e.Primitive + ": " + e.Op + ": " + e.Err.Error()
}

func (e *ViolationError) Unwrap() error {
	return e.Err
}

func violation(primitive, op string, err error) {
	e := &ViolationError{Primitive: primitive, Op: op, Err: err}
	logger.DefaultLogger.Error("contract violation: %s", e.Error())
	panic(e)
}
