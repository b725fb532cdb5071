package gate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateUnbounded(t *testing.T) {
	g := New(0)
	for i := 0; i < 1000; i++ {
		require.NoError(t, g.Acquire(context.Background(), 0))
	}
	assert.Equal(t, 0, g.InUse())
	assert.Equal(t, 0, g.Capacity())
}

func TestGateCapEnforcement(t *testing.T) {
	g := New(2)
	require.NoError(t, g.Acquire(context.Background(), 0))
	require.NoError(t, g.Acquire(context.Background(), 0))
	assert.Equal(t, 2, g.InUse())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := g.Acquire(ctx, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	g.Release()
	require.NoError(t, g.Acquire(context.Background(), 0))
	assert.Equal(t, 2, g.InUse())
}

func TestGatePriorityOrdering(t *testing.T) {
	g := New(1)
	require.NoError(t, g.Acquire(context.Background(), 0)) // A holds the only slot

	order := make(chan int, 2)
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		require.NoError(t, g.Acquire(context.Background(), 0)) // B, low priority
		order <- 0
	}()
	time.Sleep(10 * time.Millisecond) // ensure B enqueues first

	go func() {
		defer wg.Done()
		require.NoError(t, g.Acquire(context.Background(), 5)) // C, high priority
		order <- 5
	}()
	time.Sleep(10 * time.Millisecond) // ensure C enqueues second, behind B

	g.Release() // admits whichever of B/C has higher priority: C

	first := <-order
	assert.Equal(t, 5, first, "higher priority waiter admitted first even though it queued later")

	g.Release()
	second := <-order
	assert.Equal(t, 0, second)

	wg.Wait()
}

func TestGateFIFOWithinPriority(t *testing.T) {
	g := New(1)
	require.NoError(t, g.Acquire(context.Background(), 0))

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			require.NoError(t, g.Acquire(context.Background(), 0))
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}()
		time.Sleep(5 * time.Millisecond)
	}

	g.Release()
	g.Release()
	g.Release()
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestGateCancelWhileWaitingIsRemoved(t *testing.T) {
	g := New(1)
	require.NoError(t, g.Acquire(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- g.Acquire(ctx, 0)
	}()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, g.Waiting())

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, g.Waiting(), "canceled waiter must be removed from the queue")

	assert.Equal(t, 1, g.InUse())
	g.Release()
	assert.Equal(t, 0, g.InUse())
}

func TestCompositeFixedOrderAndRollback(t *testing.T) {
	global := New(5)
	perHandler := New(1)
	c := NewComposite(global, perHandler)

	require.NoError(t, c.Acquire(context.Background(), 0))
	assert.Equal(t, 1, global.InUse())
	assert.Equal(t, 1, perHandler.InUse())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := c.Acquire(ctx, 0)
	assert.Error(t, err)
	// perHandler was exhausted; the global permit taken before it was rolled back.
	assert.Equal(t, 1, global.InUse())
	assert.Equal(t, 1, perHandler.InUse())

	c.Release()
	assert.Equal(t, 0, global.InUse())
	assert.Equal(t, 0, perHandler.InUse())
}
