package spinsync

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestOnceCellNewIsEmpty(t *testing.T) {
	var c OnceCell[uint32]
	assert.False(t, c.IsInitialized())
	_, ok := c.Get()
	assert.False(t, ok)
	assert.Equal(t, uint32(42), c.GetOrInit(func() uint32 { return 42 }))
	assert.True(t, c.IsInitialized())
}

func TestOnceCellReturnsFirstValue(t *testing.T) {
	var c OnceCell[int]
	assert.Equal(t, 42, c.GetOrInit(func() int { return 42 }))
	assert.Equal(t, 42, c.GetOrInit(func() int { return 84 }))
	v, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestOnceCellInitRunsOnce(t *testing.T) {
	var (
		c       OnceCell[int]
		counter int
	)
	initFn := func() int {
		counter++
		return counter
	}
	assert.Equal(t, 1, c.GetOrInit(initFn))
	assert.Equal(t, 1, c.GetOrInit(initFn))
	assert.Equal(t, 1, counter)
}

// All goroutines are released at once; the initializer has a side effect
// and must run exactly once, and everybody sees its result.
func TestOnceCellConcurrentInit(t *testing.T) {
	const (
		goroutines = 16
		rounds     = 200
	)

	for round := 0; round < rounds; round++ {
		var (
			c       OnceCell[int]
			calls   atomic.Int32
			results [goroutines]int
			ready   sync.WaitGroup
			g       errgroup.Group
		)
		start := make(chan struct{})
		ready.Add(goroutines)
		for i := 0; i < goroutines; i++ {
			g.Go(func() error {
				ready.Done()
				<-start
				results[i] = c.GetOrInit(func() int {
					calls.Add(1)
					// widen the window for the others to pile up
					time.Sleep(10 * time.Microsecond)
					return i
				})
				return nil
			})
		}
		ready.Wait()
		close(start)
		require.NoError(t, g.Wait())

		require.Equal(t, int32(1), calls.Load(), "round %d", round)
		for i := 1; i < goroutines; i++ {
			require.Equal(t, results[0], results[i], "round %d", round)
		}
	}
}

func TestOnceCellPanicLeavesEmpty(t *testing.T) {
	var c OnceCell[string]
	assert.PanicsWithValue(t, "init failed", func() {
		c.GetOrInit(func() string {
			panic("init failed")
		})
	})
	assert.False(t, c.IsInitialized())
	assert.Equal(t, "second", c.GetOrInit(func() string { return "second" }))
}

// Goroutines waiting on a panicking initializer take over.
func TestOnceCellPanicHandsOver(t *testing.T) {
	var (
		c       OnceCell[int]
		claimed = make(chan struct{})
		release = make(chan struct{})
		g       errgroup.Group
	)

	g.Go(func() error {
		defer func() { _ = recover() }()
		c.GetOrInit(func() int {
			close(claimed)
			<-release
			panic("first initializer fails")
		})
		return errors.New("GetOrInit returned after a panic")
	})

	<-claimed
	got := make(chan int, 1)
	go func() {
		got <- c.GetOrInit(func() int { return 2 })
	}()
	close(release)

	require.NoError(t, g.Wait())
	select {
	case v := <-got:
		assert.Equal(t, 2, v)
	case <-time.After(5 * time.Second):
		t.Fatal("waiter did not take over the cell")
	}
}

func TestOnceCellTryInit(t *testing.T) {
	var c OnceCell[int]
	failure := errors.New("not yet")

	_, err := c.GetOrTryInit(func() (int, error) { return 0, failure })
	assert.ErrorIs(t, err, failure)
	assert.False(t, c.IsInitialized())

	v, err := c.GetOrTryInit(func() (int, error) { return 5, nil })
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	v, err = c.GetOrTryInit(func() (int, error) { return 0, failure })
	require.NoError(t, err, "an initialized cell does not run the initializer")
	assert.Equal(t, 5, v)
}

func TestOnceCellSet(t *testing.T) {
	var c OnceCell[string]
	assert.True(t, c.Set("a"))
	assert.False(t, c.Set("b"))
	assert.Equal(t, "a", c.GetOrInit(func() string { return "c" }))
}

func TestOnceCellConcurrentSet(t *testing.T) {
	const goroutines = 16

	var (
		c    OnceCell[int]
		wins atomic.Int32
		g    errgroup.Group
	)
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			if c.Set(i) {
				wins.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), wins.Load())
	assert.True(t, c.IsInitialized())
}

func TestOnceCellComplexType(t *testing.T) {
	type complexType struct {
		value string
		tags  []string
	}
	var c OnceCell[*complexType]
	first := c.GetOrInit(func() *complexType {
		return &complexType{value: "hello world", tags: []string{"a"}}
	})
	second := c.GetOrInit(func() *complexType { return nil })
	assert.Equal(t, "hello world", first.value)
	assert.Same(t, first, second)
}

func BenchmarkOnceCell(b *testing.B) {
	b.Run("OnceCell", func(b *testing.B) {
		b.ReportAllocs()
		var c OnceCell[int]
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_ = c.GetOrInit(func() int { return 1 })
			}
		})
	})
	b.Run("SyncOnceValue", func(b *testing.B) {
		b.ReportAllocs()
		get := sync.OnceValue(func() int { return 1 })
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_ = get()
			}
		})
	})
}
