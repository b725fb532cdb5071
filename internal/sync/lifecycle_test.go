package sync

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecycleOnceStartOnce(t *testing.T) {
	var l LifecycleOnce
	calls := 0
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Start(func() error {
				calls++
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
	assert.Equal(t, Running, l.LifecycleState())
}

func TestLifecycleOnceStartError(t *testing.T) {
	var l LifecycleOnce
	boom := errors.New("boom")
	err := l.Start(func() error { return boom })
	assert.Equal(t, boom, err)
	assert.Equal(t, Errored, l.LifecycleState())

	// second call returns the same error without rerunning f
	err2 := l.Start(func() error { t.Fatal("should not run again"); return nil })
	assert.Equal(t, boom, err2)
}

func TestLifecycleOnceStopWithoutStart(t *testing.T) {
	var l LifecycleOnce
	assert.NoError(t, l.Stop(func() error { t.Fatal("should not run"); return nil }))
}

func TestLifecycleOnceStopOnce(t *testing.T) {
	var l LifecycleOnce
	require := assert.New(t)
	require.NoError(l.Start(nil))
	stops := 0
	require.NoError(l.Stop(func() error { stops++; return nil }))
	require.NoError(l.Stop(func() error { stops++; return nil }))
	require.Equal(1, stops)
	require.Equal(Stopped, l.LifecycleState())
	require.False(l.IsRunning())
}
