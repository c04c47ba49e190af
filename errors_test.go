package spinsync

import (
	"errors"
	"os"
	"testing"

	"github.com/aradilov/spinsync/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// violations are provoked on purpose below
	logger.SetOpenLogger(false)
	os.Exit(m.Run())
}

// requireViolation runs fn and checks that it panics with a *ViolationError
// wrapping target.
func requireViolation(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a contract violation")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		var v *ViolationError
		require.ErrorAs(t, err, &v)
		require.ErrorIs(t, err, target)
	}()
	fn()
}

func TestViolationError(t *testing.T) {
	err := error(&ViolationError{Primitive: "oneshot", Op: "send", Err: ErrDoubleSend})
	assert.Equal(t, "oneshot: send: value already sent", err.Error())
	assert.True(t, errors.Is(err, ErrDoubleSend))
	assert.False(t, errors.Is(err, ErrConsumed))

	requireViolation(t, ErrNotLocked, func() {
		violation("spinlock", "unlock", ErrNotLocked)
	})
}
